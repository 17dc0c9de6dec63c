package item

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/logging"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserDirectory resolves users.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// RequestChecker tells whether an item request exists.
type RequestChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// BookingHistory answers booking questions about an item relative to an instant.
type BookingHistory interface {
	LastBooking(ctx context.Context, itemID int64, now time.Time) (*BookingShort, error)
	NextBooking(ctx context.Context, itemID int64, now time.Time) (*BookingShort, error)
	HasCompletedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error)
}

type Service interface {
	Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error)
	Update(ctx context.Context, ownerID, itemID int64, req UpdateRequest) (*Item, error)
	// GetItem returns the bare item, used by the booking engine.
	GetItem(ctx context.Context, itemID int64) (*Item, error)
	GetByID(ctx context.Context, itemID, viewerID int64) (*Detail, error)
	ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]*Detail, error)
	Search(ctx context.Context, text string, page pagination.Page) ([]*Item, error)
	AddComment(ctx context.Context, itemID, authorID int64, text string) (*Comment, error)
}

// Option customizes the service.
type Option func(*service)

// WithClock replaces the wall clock used for booking annotations and comment checks.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

type service struct {
	repo     Repository
	users    UserDirectory
	requests RequestChecker
	history  BookingHistory
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, users UserDirectory, requests RequestChecker, history BookingHistory, logger *zerolog.Logger, opts ...Option) Service {
	s := &service{
		repo:     repo,
		users:    users,
		requests: requests,
		history:  history,
		logger:   logging.OrNop(logger),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, userLookupError(err, ownerID)
	}

	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRequestNotFound.Withf("Item request with id %d not found", *req.RequestID)
		}
	}

	it := &Item{
		Name:        name,
		Description: description,
		Available:   *req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", it.ID).Int64("owner_id", ownerID).Msg("item created")
	return it, nil
}

func (s *service) Update(ctx context.Context, ownerID, itemID int64, req UpdateRequest) (*Item, error) {
	it, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if it.OwnerID != ownerID {
		return nil, ErrForbidden.Withf("User with id %d is not the owner of item %d", ownerID, itemID)
	}

	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			it.Name = name
		}
	}
	if req.Description != nil {
		if description := strings.TrimSpace(*req.Description); description != "" {
			it.Description = description
		}
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetItem(ctx context.Context, itemID int64) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound.Withf("Item with id %d not found", itemID)
		}
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, itemID, viewerID int64) (*Detail, error) {
	it, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details, err := s.annotate(ctx, []*Item{it}, viewerID)
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]*Detail, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, userLookupError(err, ownerID)
	}

	items, err := s.repo.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, items, ownerID)
}

func (s *service) Search(ctx context.Context, text string, page pagination.Page) ([]*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text, page)
}

func (s *service) AddComment(ctx context.Context, itemID, authorID int64, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, userLookupError(err, authorID)
	}

	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	ok, err := s.history.HasCompletedBooking(ctx, itemID, authorID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoCompletedBooking.Withf("User with id %d has no completed booking of item %d", authorID, itemID)
	}

	c := &Comment{
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Text:       text,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", itemID).Int64("author_id", authorID).Msg("comment added")
	return c, nil
}

// annotate loads comments for all items in one query and booking neighbours for owned items.
func (s *service) annotate(ctx context.Context, items []*Item, viewerID int64) ([]*Detail, error) {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	comments, err := s.repo.ListComments(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	details := make([]*Detail, len(items))
	for i, it := range items {
		d := &Detail{Item: it, Comments: comments[it.ID]}
		if d.Comments == nil {
			d.Comments = []*Comment{}
		}

		if it.OwnerID == viewerID {
			if d.LastBooking, err = s.history.LastBooking(ctx, it.ID, now); err != nil {
				return nil, err
			}
			if d.NextBooking, err = s.history.NextBooking(ctx, it.ID, now); err != nil {
				return nil, err
			}
		}
		details[i] = d
	}
	return details, nil
}

func userLookupError(err error, userID int64) error {
	if errors.Is(err, user.ErrNotFound) {
		return user.ErrNotFound.Withf("User with id %d not found", userID)
	}
	return err
}
