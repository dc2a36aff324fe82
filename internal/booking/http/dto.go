package http

import (
	"time"

	"github.com/sergey-oreshkin/shareit/internal/booking"
	"github.com/sergey-oreshkin/shareit/internal/pkg/apperror"
	userHttp "github.com/sergey-oreshkin/shareit/internal/user/http"
)

var (
	errInvalidTimeRange = apperror.New(apperror.KindValidation, "start time must be before end time")
	errTimeInPast       = apperror.New(apperror.KindValidation, "booking must start and end in the future")
)

type CreateBookingBody struct {
	ItemID    int64     `json:"item_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// Validate enforces the time-window invariants at the boundary: the window
// must be well-formed and lie strictly in the future.
func (b *CreateBookingBody) Validate(now time.Time) error {
	if !b.StartTime.Before(b.EndTime) {
		return errInvalidTimeRange
	}
	if !b.StartTime.After(now) || !b.EndTime.After(now) {
		return errTimeInPast
	}
	return nil
}

// ItemTag holds minimal item info for embedding in booking responses.
type ItemTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID        int64            `json:"id"`
	Item      ItemTag          `json:"item"`
	Booker    userHttp.UserTag `json:"booker"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Item:      ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker:    userHttp.UserTag{ID: b.BookerID, Name: b.BookerName},
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}
