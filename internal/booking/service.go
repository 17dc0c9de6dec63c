package booking

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/logging"
	"github.com/nekogravitycat/shareit-backend/internal/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// ItemCatalog resolves items for the booking engine.
type ItemCatalog interface {
	GetItem(ctx context.Context, itemID int64) (*item.Item, error)
}

// UserDirectory resolves users for the booking engine.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	SetApproval(ctx context.Context, bookingID int64, approve bool, ownerID int64) (*Booking, error)
	GetByID(ctx context.Context, bookingID, viewerID int64) (*Booking, error)
	ListForBooker(ctx context.Context, q Query) ([]*Booking, int, error)
	ListForOwner(ctx context.Context, q Query) ([]*Booking, int, error)
}

const DefaultStoreTimeout = 5 * time.Second

// Option customizes the service.
type Option func(*service)

// WithClock replaces the wall clock used to evaluate time-window filters.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithStoreTimeout bounds every operation's store and directory calls.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

type service struct {
	repo    Repository
	items   ItemCatalog
	users   UserDirectory
	logger  *zerolog.Logger
	now     func() time.Time
	timeout time.Duration
}

func NewService(repo Repository, items ItemCatalog, users UserDirectory, logger *zerolog.Logger, opts ...Option) Service {
	s := &service{
		repo:    repo,
		items:   items,
		users:   users,
		logger:  logging.OrNop(logger),
		now:     func() time.Time { return time.Now().UTC() },
		timeout: DefaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create checks, in order: the item exists, the requester is not its owner,
// the item is available, the requester exists, and start is before end.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	it, err := s.items.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrNotFound.Withf("Item with id %d not found", req.ItemID)
		}
		return nil, storeError(err)
	}

	// An owner booking their own item is reported as not found.
	if it.OwnerID == req.BookerID {
		return nil, ErrNotFound.Withf("Owner of the item cannot create a booking")
	}

	if !it.Available {
		return nil, ErrItemUnavailable.Withf("Item with id %d not available", it.ID)
	}

	booker, err := s.users.GetByID(ctx, req.BookerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrNotFound.Withf("User with id %d not found", req.BookerID)
		}
		return nil, storeError(err)
	}

	if !req.Start.Before(req.End) {
		return nil, ErrInvalidTimeRange
	}

	b := &Booking{
		ItemID:     it.ID,
		ItemName:   it.Name,
		OwnerID:    it.OwnerID,
		BookerID:   booker.ID,
		BookerName: booker.Name,
		Start:      req.Start,
		End:        req.End,
		Status:     StatusWaiting,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, storeError(err)
	}

	metrics.IncBookingCreated()
	s.logger.Info().
		Int64("booking_id", b.ID).
		Int64("item_id", b.ItemID).
		Int64("booker_id", b.BookerID).
		Time("start", b.Start).
		Time("end", b.End).
		Msg("booking created")

	return b, nil
}

// SetApproval moves a WAITING booking to APPROVED or REJECTED. Only the item owner may do it,
// and of two concurrent calls exactly one succeeds.
func (s *service) SetApproval(ctx context.Context, bookingID int64, approve bool, ownerID int64) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, storeError(err)
	}

	if b.OwnerID != ownerID {
		return nil, ErrNotFound.Withf("User with id %d has no rights to change booking %d", ownerID, bookingID)
	}

	target := StatusRejected
	if approve {
		target = StatusApproved
	}

	if !CanTransition(b.Status, target) {
		return nil, ErrStatusAlreadySet
	}

	updated, err := s.repo.UpdateStatus(ctx, bookingID, StatusWaiting, target)
	if err != nil {
		if errors.Is(err, ErrStatusAlreadySet) {
			metrics.IncApprovalConflict()
			s.logger.Warn().Int64("booking_id", bookingID).Msg("booking status changed concurrently")
		}
		return nil, storeError(err)
	}

	metrics.IncStatusChange(string(updated.Status))
	s.logger.Info().
		Int64("booking_id", bookingID).
		Int64("owner_id", ownerID).
		Str("status", string(updated.Status)).
		Msg("booking status changed")

	return updated, nil
}

// GetByID returns the booking to its booker or to the item owner.
func (s *service) GetByID(ctx context.Context, bookingID, viewerID int64) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, storeError(err)
	}

	if b.BookerID != viewerID && b.OwnerID != viewerID {
		return nil, ErrNotFound.Withf("User with id %d has no access to booking %d", viewerID, bookingID)
	}
	return b, nil
}

func (s *service) ListForBooker(ctx context.Context, q Query) ([]*Booking, int, error) {
	return s.list(ctx, q, func(f *Filter) { f.BookerID = q.SubjectID })
}

func (s *service) ListForOwner(ctx context.Context, q Query) ([]*Booking, int, error) {
	return s.list(ctx, q, func(f *Filter) { f.OwnerID = q.SubjectID })
}

func (s *service) list(ctx context.Context, q Query, scope func(*Filter)) ([]*Booking, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if !q.State.Valid() {
		return nil, 0, ErrUnknownState.Withf("Unknown state: %s", string(q.State))
	}

	if _, err := s.users.GetByID(ctx, q.SubjectID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, 0, ErrNotFound.Withf("User with id %d not found", q.SubjectID)
		}
		return nil, 0, storeError(err)
	}

	filter := Filter{
		State: q.State,
		Now:   s.now(),
		Page:  q.Page,
	}
	scope(&filter)

	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, storeError(err)
	}
	return bookings, total, nil
}

// storeError reports an exceeded store timeout as 503. Other errors pass through.
func storeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.Wrap(err, http.StatusServiceUnavailable, "storage did not respond in time")
	}
	return err
}

func (s *service) getBooking(ctx context.Context, id int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound.Withf("Booking with id %d not found", id)
		}
		return nil, err
	}
	return b, nil
}
