package booking

import (
	"context"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
)

// itemHistory exposes booking queries to the item module.
type itemHistory struct {
	repo Repository
}

// NewItemHistory adapts the store to item.BookingHistory.
func NewItemHistory(repo Repository) item.BookingHistory {
	return &itemHistory{repo: repo}
}

func (h *itemHistory) LastBooking(ctx context.Context, itemID int64, now time.Time) (*item.BookingShort, error) {
	b, err := h.repo.FindLast(ctx, itemID, now)
	if err != nil {
		return nil, err
	}
	return toShort(b), nil
}

func (h *itemHistory) NextBooking(ctx context.Context, itemID int64, now time.Time) (*item.BookingShort, error) {
	b, err := h.repo.FindNext(ctx, itemID, now)
	if err != nil {
		return nil, err
	}
	return toShort(b), nil
}

func (h *itemHistory) HasCompletedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error) {
	return h.repo.ExistsCompleted(ctx, itemID, userID, now)
}

func toShort(b *Booking) *item.BookingShort {
	if b == nil {
		return nil
	}
	return &item.BookingShort{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}
