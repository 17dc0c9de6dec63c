package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

type CreateBookingRequest struct {
	ItemID int64             `json:"itemId" binding:"required,min=1"`
	Start  request.Timestamp `json:"start"`
	End    request.Timestamp `json:"end"`
}

// Validate checks the boundaries relative to now: start not in the past, end in the future.
// Ordering of start and end is left to the booking service.
func (r *CreateBookingRequest) Validate(now time.Time) error {
	if r.Start.IsZero() || r.Start.Before(now) {
		return booking.ErrStartInPast
	}
	if r.End.IsZero() || !r.End.After(now) {
		return booking.ErrEndInPast
	}
	return nil
}

type ApproveBookingRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.PageParams
	State string `form:"state"`
}

type BookingResponse struct {
	ID     int64            `json:"id"`
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Status string           `json:"status"`
	Item   itemHttp.ItemTag `json:"item"`
	Booker userHttp.UserTag `json:"booker"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: string(b.Status),
		Item:   itemHttp.ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker: userHttp.UserTag{ID: b.BookerID, Name: b.BookerName},
	}
}
