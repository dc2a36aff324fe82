package booking

import (
	"context"
	"time"

	"github.com/sergey-oreshkin/shareit/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(apperror.KindNotFound, "booking not found")
	ErrItemNotFound    = apperror.New(apperror.KindNotFound, "item not found")
	ErrOwnItem         = apperror.New(apperror.KindNotAllowed, "an owner cannot book their own item")
	ErrItemUnavailable = apperror.New(apperror.KindInvalidState, "item is not available")
	ErrAlreadyDecided  = apperror.New(apperror.KindInvalidState, "booking is already decided")
	ErrNotItemOwner    = apperror.New(apperror.KindNotAllowed, "only the item owner can decide a booking")
	ErrViewForbidden   = apperror.New(apperror.KindNotAllowed, "booking is visible only to the booker and the item owner")
	ErrNothingToReturn = apperror.New(apperror.KindNotFound, "no bookings found")
	ErrUnknownState    = apperror.New(apperror.KindValidation, "unknown booking state")
)

// Booking is a reservation of an item by a booker for a time interval.
// ItemName, ItemOwnerID and BookerName are denormalized from the joined
// item and user rows; the owner id gates the approve and view operations.
type Booking struct {
	ID          int64
	ItemID      int64
	ItemName    string
	ItemOwnerID int64
	BookerID    int64
	BookerName  string
	StartTime   time.Time
	EndTime     time.Time
	Status      Status
	CreatedAt   time.Time
}

// ItemInfo is the read-only item context the booking core needs.
type ItemInfo struct {
	ID        int64
	Name      string
	OwnerID   int64
	Available bool
}

// ItemDirectory resolves items. Implemented by an adapter over the item
// service; lookups propagate the item module's not-found error.
type ItemDirectory interface {
	Get(ctx context.Context, id int64) (*ItemInfo, error)
	ListIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
}

// UserDirectory validates that an acting user exists.
type UserDirectory interface {
	Exists(ctx context.Context, id int64) error
}
