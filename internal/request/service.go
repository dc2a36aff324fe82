package request

import (
	"context"
	"strings"

	"github.com/sergey-oreshkin/shareit/internal/pkg/pagination"
)

type Service interface {
	Create(ctx context.Context, requesterID int64, description string) (*ItemRequest, error)

	// ListOwn returns the user's own requests, newest first, with the items
	// offered in answer.
	ListOwn(ctx context.Context, requesterID int64) ([]*ItemRequest, error)

	// ListOthers returns other users' requests for browsing, newest first.
	ListOthers(ctx context.Context, userID int64, page pagination.Page) ([]*ItemRequest, error)

	GetByID(ctx context.Context, userID, id int64) (*ItemRequest, error)
}

type service struct {
	repo  Repository
	users UserDirectory
}

func NewService(repo Repository, users UserDirectory) Service {
	return &service{
		repo:  repo,
		users: users,
	}
}

func (s *service) Create(ctx context.Context, requesterID int64, description string) (*ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}
	if err := s.users.Exists(ctx, requesterID); err != nil {
		return nil, err
	}

	req := &ItemRequest{
		Description: description,
		RequesterID: requesterID,
		Items:       []ItemRef{},
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, requesterID int64) ([]*ItemRequest, error) {
	if err := s.users.Exists(ctx, requesterID); err != nil {
		return nil, err
	}
	return s.repo.ListByRequester(ctx, requesterID)
}

func (s *service) ListOthers(ctx context.Context, userID int64, page pagination.Page) ([]*ItemRequest, error) {
	if err := s.users.Exists(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListOthers(ctx, userID, page)
}

func (s *service) GetByID(ctx context.Context, userID, id int64) (*ItemRequest, error) {
	if err := s.users.Exists(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
