package http

import (
	"time"

	"github.com/itemshare/backend/internal/item"
	"github.com/itemshare/backend/internal/request"
)

type CreateRequestBody struct {
	Description string `json:"description" binding:"required"`
}

type AnswerItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     string `json:"ownerId"`
}

func newAnswerItemResponse(i *item.Item) AnswerItemResponse {
	return AnswerItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		OwnerID:     i.OwnerID,
	}
}

type RequestResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
}

func NewRequestResponse(r *request.ItemRequest) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.Created,
	}
}

type RequestWithItemsResponse struct {
	RequestResponse
	Items []AnswerItemResponse `json:"items"`
}

func NewRequestWithItemsResponse(wi *request.WithItems) RequestWithItemsResponse {
	items := make([]AnswerItemResponse, len(wi.Items))
	for i, it := range wi.Items {
		items[i] = newAnswerItemResponse(it)
	}

	return RequestWithItemsResponse{
		RequestResponse: NewRequestResponse(&wi.ItemRequest),
		Items:           items,
	}
}

func NewRequestWithItemsListResponse(wis []*request.WithItems) []RequestWithItemsResponse {
	resp := make([]RequestWithItemsResponse, len(wis))
	for i, wi := range wis {
		resp[i] = NewRequestWithItemsResponse(wi)
	}
	return resp
}
