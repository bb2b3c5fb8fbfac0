package http

import (
	"time"

	"github.com/itemshare/backend/internal/item"
)

type CreateItemBody struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *string `json:"requestId" binding:"omitempty,uuid"`
}

type UpdateItemBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *string `json:"requestId" binding:"omitempty,uuid"`
}

type CreateCommentBody struct {
	Text string `json:"text" binding:"required"`
}

type ItemResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	RequestID   *string `json:"requestId,omitempty"`
}

func NewItemResponse(i *item.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		RequestID:   i.RequestID,
	}
}

type BookingSummaryResponse struct {
	ID       string    `json:"id"`
	BookerID string    `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func newBookingSummaryResponse(b *item.BookingSummary) *BookingSummaryResponse {
	if b == nil {
		return nil
	}
	return &BookingSummaryResponse{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}

type CommentResponse struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

func NewCommentResponse(cm *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         cm.ID,
		Text:       cm.Text,
		AuthorName: cm.AuthorName,
		Created:    cm.Created,
	}
}

type ItemWithBookingsResponse struct {
	ItemResponse
	LastBooking *BookingSummaryResponse `json:"lastBooking"`
	NextBooking *BookingSummaryResponse `json:"nextBooking"`
	Comments    []CommentResponse       `json:"comments"`
}

func NewItemWithBookingsResponse(wb *item.WithBookings) ItemWithBookingsResponse {
	comments := make([]CommentResponse, len(wb.Comments))
	for i, cm := range wb.Comments {
		comments[i] = NewCommentResponse(cm)
	}

	return ItemWithBookingsResponse{
		ItemResponse: NewItemResponse(&wb.Item),
		LastBooking:  newBookingSummaryResponse(wb.LastBooking),
		NextBooking:  newBookingSummaryResponse(wb.NextBooking),
		Comments:     comments,
	}
}
