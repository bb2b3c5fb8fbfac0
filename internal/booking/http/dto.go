package http

import (
	"time"

	"github.com/itemshare/backend/internal/booking"
)

type CreateBookingBody struct {
	ItemID string    `json:"itemId" binding:"required,uuid"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

type UserTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     string    `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
	Booker UserTag   `json:"booker"`
	Item   ItemTag   `json:"item"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: string(b.Status),
		Booker: UserTag{ID: b.BookerID, Name: b.BookerName},
		Item:   ItemTag{ID: b.ItemID, Name: b.ItemName},
	}
}

func NewBookingListResponse(bs []*booking.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bs))
	for i, b := range bs {
		resp[i] = NewBookingResponse(b)
	}
	return resp
}
