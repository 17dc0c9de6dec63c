package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// memRepo is an in-memory Repository. UpdateStatus is a compare-and-swap under mu.
type memRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*Booking
}

func newMemRepo() *memRepo {
	return &memRepo{bookings: make(map[int64]*Booking)}
}

func (r *memRepo) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	b.CreatedAt = time.Now().UTC()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id int64, from, to Status) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if b.Status != from {
		return nil, ErrStatusAlreadySet
	}
	b.Status = to
	cp := *b
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, f Filter) ([]*Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*Booking
	for _, b := range r.bookings {
		if f.BookerID != 0 && b.BookerID != f.BookerID {
			continue
		}
		if f.OwnerID != 0 && b.OwnerID != f.OwnerID {
			continue
		}
		if !f.State.Matches(b, f.Now) {
			continue
		}
		cp := *b
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Start.Equal(matched[j].Start) {
			return matched[i].Start.After(matched[j].Start)
		}
		return matched[i].ID > matched[j].ID
	})

	return pagination.Slice(matched, f.Page), len(matched), nil
}

func (r *memRepo) FindLast(_ context.Context, itemID int64, now time.Time) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *Booking
	for _, b := range r.bookings {
		if b.ItemID != itemID || b.Status == StatusRejected || b.Start.After(now) {
			continue
		}
		if best == nil || b.Start.After(best.Start) {
			best = b
		}
	}
	return best, nil
}

func (r *memRepo) FindNext(_ context.Context, itemID int64, now time.Time) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *Booking
	for _, b := range r.bookings {
		if b.ItemID != itemID || b.Status == StatusRejected || !b.Start.After(now) {
			continue
		}
		if best == nil || b.Start.Before(best.Start) {
			best = b
		}
	}
	return best, nil
}

func (r *memRepo) ExistsCompleted(_ context.Context, itemID, userID int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ItemID == itemID && b.BookerID == userID && b.Status == StatusApproved && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type fakeCatalog map[int64]*item.Item

func (c fakeCatalog) GetItem(_ context.Context, id int64) (*item.Item, error) {
	it, ok := c[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return it, nil
}

type fakeUsers map[int64]*user.User

func (u fakeUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	usr, ok := u[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return usr, nil
}
