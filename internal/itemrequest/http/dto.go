package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
)

type CreateItemRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

type LinkedItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   int64  `json:"requestId"`
}

type ItemRequestResponse struct {
	ID          int64                `json:"id"`
	Description string               `json:"description"`
	RequesterID int64                `json:"requesterId"`
	Created     time.Time            `json:"created"`
	Items       []LinkedItemResponse `json:"items"`
}

func NewItemRequestResponse(r *itemrequest.ItemRequest) ItemRequestResponse {
	items := make([]LinkedItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = LinkedItemResponse{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Available:   it.Available,
			OwnerID:     it.OwnerID,
			RequestID:   it.RequestID,
		}
	}

	return ItemRequestResponse{
		ID:          r.ID,
		Description: r.Description,
		RequesterID: r.RequesterID,
		Created:     r.CreatedAt,
		Items:       items,
	}
}
