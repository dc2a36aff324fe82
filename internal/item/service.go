package item

import (
	"context"
	"strings"

	"github.com/sergey-oreshkin/shareit/internal/pkg/clock"
	"github.com/sergey-oreshkin/shareit/internal/pkg/pagination"
)

type CreateRequest struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error)
	Update(ctx context.Context, actorID, itemID int64, req UpdateRequest) (*Item, error)

	// GetByID returns the item with its comments; when the caller is the
	// owner, the last and next bookings are attached as well.
	GetByID(ctx context.Context, actorID, itemID int64) (*Item, error)

	// ListByOwner returns the user's items ordered by id, each with its
	// last and next bookings.
	ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]*Item, error)

	// Search finds available items by case-insensitive substring match over
	// name and description. A blank query yields an empty result.
	Search(ctx context.Context, text string, page pagination.Page) ([]*Item, error)

	// AddComment stores feedback from a user who has finished a booking of
	// the item.
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*Comment, error)

	ListIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
}

type service struct {
	repo     Repository
	bookings BookingDirectory
	users    UserDirectory
	clock    clock.Clock
}

func NewService(repo Repository, bookings BookingDirectory, users UserDirectory, clk clock.Clock) Service {
	return &service{
		repo:     repo,
		bookings: bookings,
		users:    users,
		clock:    clk,
	}
}

func (s *service) Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if err := s.users.Exists(ctx, ownerID); err != nil {
		return nil, err
	}

	it := &Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Update(ctx context.Context, actorID, itemID int64, req UpdateRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		it.Name = *req.Name
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		it.Description = *req.Description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, actorID, itemID int64) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, itemID)
	if err != nil {
		return nil, err
	}
	it.Comments = comments

	// Last/next bookings are the owner's view only.
	if it.OwnerID == actorID {
		if err := s.attachBookings(ctx, it); err != nil {
			return nil, err
		}
	}
	return it, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]*Item, error) {
	if err := s.users.Exists(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if err := s.attachBookings(ctx, it); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *service) Search(ctx context.Context, text string, page pagination.Page) ([]*Item, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return s.repo.Search(ctx, text, page)
}

func (s *service) AddComment(ctx context.Context, authorID, itemID int64, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}
	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	if err := s.users.Exists(ctx, authorID); err != nil {
		return nil, err
	}

	used, err := s.bookings.HasFinished(ctx, authorID, itemID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !used {
		return nil, ErrCommentNotAllowed
	}

	cm := &Comment{
		Text:     text,
		ItemID:   itemID,
		AuthorID: authorID,
	}

	if err := s.repo.CreateComment(ctx, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

func (s *service) ListIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	return s.repo.ListIDsByOwner(ctx, ownerID)
}

func (s *service) attachBookings(ctx context.Context, it *Item) error {
	last, next, err := s.bookings.LastAndNext(ctx, it.ID, s.clock.Now())
	if err != nil {
		return err
	}
	it.LastBooking = last
	it.NextBooking = next
	return nil
}
