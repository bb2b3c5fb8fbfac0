package booking

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/itemshare/backend/internal/item"
	"github.com/itemshare/backend/internal/pkg/apperror"
	"github.com/itemshare/backend/internal/pkg/clock"
	"github.com/itemshare/backend/internal/user"
)

// ErrOwnBooking deliberately reads as "not found": an owner asking to book
// their own item is treated as if the item did not exist for booking.
var ErrOwnBooking = apperror.New(http.StatusNotFound, "owner cannot book their own item")

type CreateRequest struct {
	ItemID   string
	BookerID string
	Start    time.Time
	End      time.Time
}

// Service owns the booking lifecycle: creation validation, the owner-approval
// transition, and authorization-scoped retrieval.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	// Decide moves a WAITING booking to APPROVED or REJECTED. Only the owner
	// of the booked item may decide, and only once.
	Decide(ctx context.Context, bookingID string, approved bool, actingUserID string) (*Booking, error)
	// GetByID returns the booking to its booker or the item owner; anyone
	// else gets the same not-found error as for a missing id.
	GetByID(ctx context.Context, bookingID, requestingUserID string) (*Booking, error)
	ListForBooker(ctx context.Context, userID string, state State) ([]*Booking, error)
	ListForOwner(ctx context.Context, userID string, state State) ([]*Booking, error)
}

type service struct {
	repo        Repository
	itemService item.Service
	userService user.Service
	clock       clock.Clock
}

func NewService(repo Repository, itemService item.Service, userService user.Service, clk clock.Clock) Service {
	return &service{
		repo:        repo,
		itemService: itemService,
		userService: userService,
		clock:       clk,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	booker, err := s.userService.GetByID(ctx, req.BookerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.Newf(http.StatusNotFound, "user with id=%s not found", req.BookerID)
		}
		return nil, err
	}

	it, err := s.itemService.Find(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, apperror.Newf(http.StatusNotFound, "item with id=%s not found", req.ItemID)
		}
		return nil, err
	}

	if !it.Available {
		return nil, ErrItemUnavailable
	}
	if it.OwnerID == booker.ID {
		return nil, ErrOwnBooking
	}
	if !req.Start.Before(req.End) {
		return nil, ErrInvalidTimeRange
	}
	if req.Start.Before(s.clock.Now()) {
		return nil, ErrStartTimePast
	}

	b := &Booking{
		ItemID:      it.ID,
		ItemName:    it.Name,
		ItemOwnerID: it.OwnerID,
		BookerID:    booker.ID,
		BookerName:  booker.Name,
		Start:       req.Start,
		End:         req.End,
		Status:      StatusWaiting,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *service) Decide(ctx context.Context, bookingID string, approved bool, actingUserID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.ItemOwnerID != actingUserID {
		return nil, ErrNotItemOwner
	}

	if b.Status != StatusWaiting {
		return nil, ErrAlreadyDecided
	}

	to := StatusRejected
	if approved {
		to = StatusApproved
	}

	// Conditional write: a concurrent decision loses here instead of silently
	// overwriting the first one.
	if err := s.repo.UpdateStatusIfWaiting(ctx, b.ID, to); err != nil {
		return nil, err
	}

	b.Status = to
	return b, nil
}

func (s *service) GetByID(ctx context.Context, bookingID, requestingUserID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.BookerID != requestingUserID && b.ItemOwnerID != requestingUserID {
		return nil, ErrNotFound
	}

	return b, nil
}

func (s *service) ListForBooker(ctx context.Context, userID string, state State) ([]*Booking, error) {
	return s.list(ctx, ScopeBooker, userID, state)
}

func (s *service) ListForOwner(ctx context.Context, userID string, state State) ([]*Booking, error) {
	return s.list(ctx, ScopeOwner, userID, state)
}

func (s *service) list(ctx context.Context, scope Scope, userID string, state State) ([]*Booking, error) {
	if _, err := s.userService.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.Newf(http.StatusNotFound, "user with id=%s not found", userID)
		}
		return nil, err
	}

	return s.repo.List(ctx, scope, userID, state, s.clock.Now())
}
