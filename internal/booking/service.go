package booking

import (
	"context"
	"strings"
	"time"

	"github.com/sergey-oreshkin/shareit/internal/pkg/clock"
	"github.com/sergey-oreshkin/shareit/internal/pkg/metrics"
	"github.com/sergey-oreshkin/shareit/internal/pkg/pagination"
)

// CreateRequest is a booking draft. The time window is validated at the HTTP
// boundary (well-formed, strictly in the future) before it reaches here.
type CreateRequest struct {
	ItemID    int64
	StartTime time.Time
	EndTime   time.Time
}

type Service interface {
	// Create books an item for the requester. The item owner cannot book
	// their own item, and the item must be available.
	Create(ctx context.Context, requesterID int64, req CreateRequest) (*Booking, error)

	// GetByID returns a booking to its booker or the item owner.
	GetByID(ctx context.Context, actorID, id int64) (*Booking, error)

	// Approve applies the owner's decision to a WAITING booking.
	Approve(ctx context.Context, actorID, id int64, approved bool) (*Booking, error)

	// ListByBooker returns the user's own bookings matching state,
	// newest start first.
	ListByBooker(ctx context.Context, userID int64, state State, page pagination.Page) ([]*Booking, error)

	// ListByOwner returns bookings of all items owned by the user
	// matching state, newest start first.
	ListByOwner(ctx context.Context, userID int64, state State, page pagination.Page) ([]*Booking, error)
}

type service struct {
	repo  Repository
	items ItemDirectory
	users UserDirectory
	clock clock.Clock
}

func NewService(repo Repository, items ItemDirectory, users UserDirectory, clk clock.Clock) Service {
	return &service{
		repo:  repo,
		items: items,
		users: users,
		clock: clk,
	}
}

func (s *service) Create(ctx context.Context, requesterID int64, req CreateRequest) (*Booking, error) {
	item, err := s.items.Get(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == requesterID {
		return nil, ErrOwnItem
	}
	if !item.Available {
		return nil, ErrItemUnavailable
	}

	b := &Booking{
		ItemID:      req.ItemID,
		ItemName:    item.Name,
		ItemOwnerID: item.OwnerID,
		BookerID:    requesterID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      StatusWaiting,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	return b, nil
}

func (s *service) GetByID(ctx context.Context, actorID, id int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != b.BookerID && actorID != b.ItemOwnerID {
		return nil, ErrViewForbidden
	}
	return b, nil
}

func (s *service) Approve(ctx context.Context, actorID, id int64, approved bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusWaiting {
		return nil, ErrAlreadyDecided
	}
	if actorID != b.ItemOwnerID {
		return nil, ErrNotItemOwner
	}

	next := Decision(approved)
	// The compare-and-swap on WAITING in the store serializes concurrent
	// decisions: the loser sees zero affected rows.
	ok, err := s.repo.UpdateStatus(ctx, id, StatusWaiting, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyDecided
	}

	b.Status = next
	metrics.IncBookingDecision(strings.ToLower(string(next)))
	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, userID int64, state State, page pagination.Page) ([]*Booking, error) {
	bookings, err := s.repo.FindByBooker(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.filter(bookings, state)
}

func (s *service) ListByOwner(ctx context.Context, userID int64, state State, page pagination.Page) ([]*Booking, error) {
	if err := s.users.Exists(ctx, userID); err != nil {
		return nil, err
	}

	itemIDs, err := s.items.ListIDsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindByItems(ctx, itemIDs, page)
	if err != nil {
		return nil, err
	}
	return s.filter(bookings, state)
}

// filter applies the state predicate to an already paginated page. An empty
// page before filtering means there is nothing to return at all, which is
// reported as not found; a page that merely filters down to nothing is an
// empty list.
func (s *service) filter(bookings []*Booking, state State) ([]*Booking, error) {
	if len(bookings) == 0 {
		return nil, ErrNothingToReturn
	}
	now := s.clock.Now()
	return state.Filter(bookings, now), nil
}
