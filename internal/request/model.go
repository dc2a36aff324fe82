package request

import (
	"context"
	"time"

	"github.com/sergey-oreshkin/shareit/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(apperror.KindNotFound, "item request not found")
	ErrEmptyDescription = apperror.New(apperror.KindValidation, "request description is required")
)

// ItemRequest is a renter's ask for an item that is not in the catalog yet.
// Items holds the items offered in answer to the request.
type ItemRequest struct {
	ID          int64
	Description string
	RequesterID int64
	CreatedAt   time.Time
	Items       []ItemRef
}

// ItemRef is the short item view attached to a request.
type ItemRef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"owner_id"`
}

// UserDirectory validates that the acting user exists.
type UserDirectory interface {
	Exists(ctx context.Context, id int64) error
}
