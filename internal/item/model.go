package item

import (
	"context"
	"net/http"
	"time"

	"github.com/itemshare/backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "item not found")
	ErrNameRequired        = apperror.New(http.StatusBadRequest, "item name must not be empty")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "item description must not be empty")
	ErrAvailableRequired   = apperror.New(http.StatusBadRequest, "item availability must be specified")
	// A non-owner editing an item is told the item does not exist, matching the
	// visibility rules of the booking views.
	ErrNotOwner          = apperror.New(http.StatusNotFound, "only the owner can edit the item")
	ErrCommentNotAllowed = apperror.New(http.StatusBadRequest, "user has not rented this item")
)

// Item is a thing offered for rental.
type Item struct {
	ID          string // UUID
	Name        string
	Description string
	Available   bool
	OwnerID     string
	RequestID   *string // set when the item was listed in reply to a request
}

// Comment is feedback left by a past renter.
type Comment struct {
	ID         string
	ItemID     string
	AuthorID   string
	AuthorName string
	Text       string
	Created    time.Time
}

// Update carries a partial item update; nil fields are left unchanged.
type Update struct {
	Name        *string
	Description *string
	Available   *bool
	RequestID   *string
}

// BookingSummary is the condensed booking projection attached to an item
// shown to its owner.
type BookingSummary struct {
	ID       string
	BookerID string
	Start    time.Time
	End      time.Time
}

// BookingProvider supplies the booking lookups this package needs. The
// booking package implements it; declaring it here keeps the dependency
// one-directional.
type BookingProvider interface {
	// LastBooking returns the most recently ended approved booking, or nil.
	LastBooking(ctx context.Context, itemID string, now time.Time) (*BookingSummary, error)
	// NextBooking returns the nearest upcoming approved booking, falling back
	// to a currently active one, or nil.
	NextBooking(ctx context.Context, itemID string, now time.Time) (*BookingSummary, error)
	// HasCompletedBooking reports whether the user has an approved booking of
	// the item that ended before now.
	HasCompletedBooking(ctx context.Context, itemID, userID string, now time.Time) (bool, error)
}

// WithBookings is an item enriched for display: booking summaries are present
// only when the viewer owns the item.
type WithBookings struct {
	Item
	LastBooking *BookingSummary
	NextBooking *BookingSummary
	Comments    []*Comment
}
