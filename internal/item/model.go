package item

import (
	"context"
	"time"

	"github.com/sergey-oreshkin/shareit/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(apperror.KindNotFound, "item not found")
	ErrNotOwner          = apperror.New(apperror.KindNotAllowed, "only the owner can edit an item")
	ErrEmptyName         = apperror.New(apperror.KindValidation, "item name is required")
	ErrEmptyDescription  = apperror.New(apperror.KindValidation, "item description is required")
	ErrEmptyComment      = apperror.New(apperror.KindValidation, "comment text is required")
	ErrCommentNotAllowed = apperror.New(apperror.KindValidation, "a comment can be left only after using the item")
)

// Item is a thing offered for sharing by its owner.
// RequestID links an item to the item request it was created in answer to.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   *int64

	// Owner-only view data, populated on demand.
	LastBooking *BookingRef
	NextBooking *BookingRef
	Comments    []Comment
}

// BookingRef is the short booking view embedded in item responses.
type BookingRef struct {
	ID        int64
	BookerID  int64
	StartTime time.Time
	EndTime   time.Time
}

// Comment is feedback left by a user who rented the item.
type Comment struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	CreatedAt  time.Time
}

// BookingDirectory is the view of the booking module the item module needs:
// the item's last/next bookings for owner views, and the "has the author
// actually rented this" gate for comments. Wired via an adapter in the app
// container to keep the packages decoupled.
type BookingDirectory interface {
	LastAndNext(ctx context.Context, itemID int64, now time.Time) (last, next *BookingRef, err error)
	HasFinished(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

// UserDirectory validates that a referenced user exists.
type UserDirectory interface {
	Exists(ctx context.Context, id int64) error
}
