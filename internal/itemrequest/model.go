package itemrequest

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "item request not found")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "description is required")
)

// ItemRequest is a user's wish for an item nobody offers yet.
type ItemRequest struct {
	ID          int64
	Description string
	RequesterID int64
	CreatedAt   time.Time
	Items       []LinkedItem
}

// LinkedItem is an item created in answer to a request.
type LinkedItem struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   int64
}
