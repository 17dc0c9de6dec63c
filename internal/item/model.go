package item

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "item not found")
	ErrRequestNotFound     = apperror.New(http.StatusNotFound, "item request not found")
	ErrForbidden           = apperror.New(http.StatusForbidden, "only the owner can edit the item")
	ErrNoCompletedBooking  = apperror.New(http.StatusBadRequest, "user has no completed booking of the item")
	ErrNameRequired        = apperror.New(http.StatusBadRequest, "name is required")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "description is required")
	ErrAvailableRequired   = apperror.New(http.StatusBadRequest, "available is required")
	ErrTextRequired        = apperror.New(http.StatusBadRequest, "text is required")
)

// Item is a thing a user offers for booking.
// Available tells whether the owner offers it at all, not whether it is reserved.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   *int64
}

// Comment is feedback left by a user who has finished a booking of the item.
type Comment struct {
	ID         int64
	ItemID     int64
	AuthorID   int64
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// BookingShort annotates an item detail with a neighbouring booking.
type BookingShort struct {
	ID       int64
	BookerID int64
	Start    time.Time
	End      time.Time
}

// Detail is the item view with booking annotations and comments.
// LastBooking and NextBooking are only filled for the owner.
type Detail struct {
	Item        *Item
	LastBooking *BookingShort
	NextBooking *BookingShort
	Comments    []*Comment
}

type CreateRequest struct {
	Name        string
	Description string
	Available   *bool
	RequestID   *int64
}

// UpdateRequest holds a partial update. Nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}
