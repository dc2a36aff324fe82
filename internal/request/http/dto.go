package http

import (
	"time"

	"github.com/sergey-oreshkin/shareit/internal/request"
)

type CreateRequestBody struct {
	Description string `json:"description" binding:"required"`
}

type ItemRefResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"owner_id"`
}

type RequestResponse struct {
	ID          int64             `json:"id"`
	Description string            `json:"description"`
	RequesterID int64             `json:"requester_id"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []ItemRefResponse `json:"items"`
}

func NewRequestResponse(req *request.ItemRequest) RequestResponse {
	items := make([]ItemRefResponse, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ItemRefResponse{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Available:   it.Available,
			OwnerID:     it.OwnerID,
		})
	}
	return RequestResponse{
		ID:          req.ID,
		Description: req.Description,
		RequesterID: req.RequesterID,
		CreatedAt:   req.CreatedAt,
		Items:       items,
	}
}
