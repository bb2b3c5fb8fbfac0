package item

import (
	"context"
	"log"
	"strings"

	"github.com/itemshare/backend/internal/pkg/clock"
	"github.com/itemshare/backend/internal/user"
)

type CreateRequest struct {
	OwnerID     string
	Name        string
	Description string
	Available   *bool
	RequestID   *string
}

// Service defines business logic related to items.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	// Find returns the raw item record without display enrichment.
	Find(ctx context.Context, id string) (*Item, error)
	GetByID(ctx context.Context, id, viewerID string) (*WithBookings, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*WithBookings, error)
	ListByRequest(ctx context.Context, requestID string) ([]*Item, error)
	Update(ctx context.Context, id, ownerID string, upd Update) (*Item, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, text string) ([]*Item, error)
	AddComment(ctx context.Context, itemID, authorID, text string) (*Comment, error)
}

type service struct {
	repo        Repository
	userService user.Service
	bookings    BookingProvider
	clock       clock.Clock
}

func NewService(repo Repository, userService user.Service, bookings BookingProvider, clk clock.Clock) Service {
	return &service{
		repo:        repo,
		userService: userService,
		bookings:    bookings,
		clock:       clk,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	if _, err := s.userService.GetByID(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	i := &Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		OwnerID:     req.OwnerID,
		RequestID:   req.RequestID,
	}

	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}

	return i, nil
}

func (s *service) Find(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByID(ctx context.Context, id, viewerID string) (*WithBookings, error) {
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.enrich(ctx, i, viewerID), nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]*WithBookings, error) {
	if _, err := s.userService.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	enriched := make([]*WithBookings, len(items))
	for idx, i := range items {
		enriched[idx] = s.enrich(ctx, i, ownerID)
	}

	return enriched, nil
}

func (s *service) ListByRequest(ctx context.Context, requestID string) ([]*Item, error) {
	return s.repo.ListByRequest(ctx, requestID)
}

func (s *service) Update(ctx context.Context, id, ownerID string, upd Update) (*Item, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	if upd.Name != nil {
		existing.Name = *upd.Name
	}
	if upd.Description != nil {
		existing.Description = *upd.Description
	}
	if upd.Available != nil {
		existing.Available = *upd.Available
	}
	if upd.RequestID != nil {
		existing.RequestID = upd.RequestID
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Search(ctx context.Context, text string) ([]*Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text)
}

func (s *service) AddComment(ctx context.Context, itemID, authorID, text string) (*Comment, error) {
	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	author, err := s.userService.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rented, err := s.bookings.HasCompletedBooking(ctx, i.ID, author.ID, now)
	if err != nil {
		return nil, err
	}
	if !rented {
		return nil, ErrCommentNotAllowed
	}

	cm := &Comment{
		ItemID:     i.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
		Created:    now,
	}

	if err := s.repo.CreateComment(ctx, cm); err != nil {
		return nil, err
	}

	return cm, nil
}

// enrich builds the display projection of an item. Booking summaries are a
// display enrichment for the owner: lookup failures are logged and rendered
// as "no booking", never propagated.
func (s *service) enrich(ctx context.Context, i *Item, viewerID string) *WithBookings {
	wb := &WithBookings{Item: *i}

	if i.OwnerID == viewerID {
		now := s.clock.Now()

		last, err := s.bookings.LastBooking(ctx, i.ID, now)
		if err != nil {
			log.Printf("last booking lookup failed for item %s: %v", i.ID, err)
		} else {
			wb.LastBooking = last
		}

		next, err := s.bookings.NextBooking(ctx, i.ID, now)
		if err != nil {
			log.Printf("next booking lookup failed for item %s: %v", i.ID, err)
		} else {
			wb.NextBooking = next
		}
	}

	comments, err := s.repo.CommentsByItem(ctx, i.ID)
	if err != nil {
		log.Printf("comments lookup failed for item %s: %v", i.ID, err)
		comments = nil
	}
	wb.Comments = comments

	return wb
}
