package http

import (
	"time"

	"github.com/sergey-oreshkin/shareit/internal/item"
)

type CreateItemBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"request_id"`
}

type UpdateItemBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type CreateCommentBody struct {
	Text string `json:"text" binding:"required"`
}

// BookingRefResponse is the short booking view in owner item responses.
type BookingRefResponse struct {
	ID        int64     `json:"id"`
	BookerID  int64     `json:"booker_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type ItemResponse struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Available   bool                `json:"available"`
	OwnerID     int64               `json:"owner_id"`
	RequestID   *int64              `json:"request_id,omitempty"`
	LastBooking *BookingRefResponse `json:"last_booking,omitempty"`
	NextBooking *BookingRefResponse `json:"next_booking,omitempty"`
	Comments    []CommentResponse   `json:"comments"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	resp := ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
		RequestID:   it.RequestID,
		LastBooking: newBookingRef(it.LastBooking),
		NextBooking: newBookingRef(it.NextBooking),
		Comments:    make([]CommentResponse, 0, len(it.Comments)),
	}
	for _, cm := range it.Comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(&cm))
	}
	return resp
}

func NewCommentResponse(cm *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         cm.ID,
		Text:       cm.Text,
		AuthorName: cm.AuthorName,
		CreatedAt:  cm.CreatedAt,
	}
}

func newBookingRef(ref *item.BookingRef) *BookingRefResponse {
	if ref == nil {
		return nil
	}
	return &BookingRefResponse{
		ID:        ref.ID,
		BookerID:  ref.BookerID,
		StartTime: ref.StartTime,
		EndTime:   ref.EndTime,
	}
}
