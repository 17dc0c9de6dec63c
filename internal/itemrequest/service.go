package itemrequest

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/logging"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserChecker tells whether a user exists.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, requesterID int64, description string) (*ItemRequest, error)
	GetByID(ctx context.Context, id, viewerID int64) (*ItemRequest, error)
	ListOwn(ctx context.Context, requesterID int64) ([]*ItemRequest, error)
	ListOthers(ctx context.Context, userID int64, page pagination.Page) ([]*ItemRequest, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type service struct {
	repo   Repository
	users  UserChecker
	logger *zerolog.Logger
}

func NewService(repo Repository, users UserChecker, logger *zerolog.Logger) Service {
	return &service{
		repo:   repo,
		users:  users,
		logger: logging.OrNop(logger),
	}
}

func (s *service) Create(ctx context.Context, requesterID int64, description string) (*ItemRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}

	req := &ItemRequest{
		Description: description,
		RequesterID: requesterID,
		Items:       []LinkedItem{},
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", req.ID).Int64("requester_id", requesterID).Msg("item request created")
	return req, nil
}

func (s *service) GetByID(ctx context.Context, id, viewerID int64) (*ItemRequest, error) {
	if err := s.requireUser(ctx, viewerID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound.Withf("Item request with id %d not found", id)
		}
		return nil, err
	}

	if err := s.attachItems(ctx, []*ItemRequest{req}); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, requesterID int64) ([]*ItemRequest, error) {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *service) ListOthers(ctx context.Context, userID int64, page pagination.Page) ([]*ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListOthers(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *service) requireUser(ctx context.Context, userID int64) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return user.ErrNotFound.Withf("User with id %d not found", userID)
	}
	return nil
}

func (s *service) attachItems(ctx context.Context, reqs []*ItemRequest) error {
	ids := make([]int64, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}

	linked, err := s.repo.LinkedItems(ctx, ids)
	if err != nil {
		return err
	}

	for _, r := range reqs {
		r.Items = linked[r.ID]
		if r.Items == nil {
			r.Items = []LinkedItem{}
		}
	}
	return nil
}
