package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrItemUnavailable  = apperror.New(http.StatusBadRequest, "item not available")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrStatusAlreadySet = apperror.New(http.StatusBadRequest, "Booking status is already set")
	ErrUnknownState     = apperror.New(http.StatusBadRequest, "Unknown state: UNSUPPORTED_STATUS")
	ErrStartInPast      = apperror.New(http.StatusBadRequest, "start must not be in the past")
	ErrEndInPast        = apperror.New(http.StatusBadRequest, "end must be in the future")
)

// Status is the approval state of a booking.
// WAITING is initial; APPROVED and REJECTED are terminal.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to Status) bool {
	return from == StatusWaiting && (to == StatusApproved || to == StatusRejected)
}

// Booking is a request by one user to use another user's item during [Start, End).
// Only Status changes after creation.
type Booking struct {
	ID         int64
	ItemID     int64
	ItemName   string
	OwnerID    int64
	BookerID   int64
	BookerName string
	Start      time.Time
	End        time.Time
	Status     Status
	CreatedAt  time.Time
}

// Filter scopes a list query. Exactly one of BookerID and OwnerID is set.
type Filter struct {
	BookerID int64
	OwnerID  int64
	State    State
	Now      time.Time
	Page     pagination.Page
}

type CreateRequest struct {
	ItemID   int64
	BookerID int64
	Start    time.Time
	End      time.Time
}

// Query is a listing request for one subject, as booker or as owner.
type Query struct {
	SubjectID int64
	State     State
	Page      pagination.Page
}
