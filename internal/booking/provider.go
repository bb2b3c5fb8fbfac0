package booking

import (
	"context"
	"time"

	"github.com/itemshare/backend/internal/item"
)

// SummaryProvider implements item.BookingProvider on top of the booking
// repository, feeding the owner's item views.
type SummaryProvider struct {
	repo Repository
}

func NewSummaryProvider(repo Repository) *SummaryProvider {
	return &SummaryProvider{repo: repo}
}

func (p *SummaryProvider) LastBooking(ctx context.Context, itemID string, now time.Time) (*item.BookingSummary, error) {
	b, err := p.repo.LastCompleted(ctx, itemID, now)
	if err != nil {
		return nil, err
	}
	return toSummary(b), nil
}

// NextBooking prefers a strictly future approved booking; when there is none
// it falls back to one currently in progress.
func (p *SummaryProvider) NextBooking(ctx context.Context, itemID string, now time.Time) (*item.BookingSummary, error) {
	b, err := p.repo.NextUpcoming(ctx, itemID, now)
	if err != nil {
		return nil, err
	}
	if b == nil {
		b, err = p.repo.ActiveAt(ctx, itemID, now)
		if err != nil {
			return nil, err
		}
	}
	return toSummary(b), nil
}

func (p *SummaryProvider) HasCompletedBooking(ctx context.Context, itemID, userID string, now time.Time) (bool, error) {
	return p.repo.HasCompleted(ctx, itemID, userID, now)
}

func toSummary(b *Booking) *item.BookingSummary {
	if b == nil {
		return nil
	}
	return &item.BookingSummary{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}
