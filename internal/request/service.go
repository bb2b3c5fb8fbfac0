package request

import (
	"context"
	"strings"

	"github.com/itemshare/backend/internal/item"
	"github.com/itemshare/backend/internal/pkg/clock"
	"github.com/itemshare/backend/internal/user"
)

// Service defines business logic related to item requests.
type Service interface {
	Create(ctx context.Context, requesterID, description string) (*ItemRequest, error)
	GetByID(ctx context.Context, id, viewerID string) (*WithItems, error)
	// ListOwn returns the user's own requests with their answers, newest first.
	ListOwn(ctx context.Context, requesterID string) ([]*WithItems, error)
	// ListOthers pages through other users' requests so the user can find
	// something to offer.
	ListOthers(ctx context.Context, viewerID string, from, size int) ([]*WithItems, error)
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

func (s *service) Create(ctx context.Context, requesterID, description string) (*ItemRequest, error) {
	if _, err := s.userService.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(description) == "" {
		return nil, ErrDescriptionRequired
	}

	req := &ItemRequest{
		Description: description,
		RequesterID: requesterID,
		Created:     s.clock.Now(),
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

func (s *service) GetByID(ctx context.Context, id, viewerID string) (*WithItems, error) {
	if _, err := s.userService.GetByID(ctx, viewerID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.withItems(ctx, req)
}

func (s *service) ListOwn(ctx context.Context, requesterID string) ([]*WithItems, error) {
	if _, err := s.userService.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	return s.withItemsAll(ctx, requests)
}

func (s *service) ListOthers(ctx context.Context, viewerID string, from, size int) ([]*WithItems, error) {
	if from < 0 || size <= 0 {
		return nil, ErrInvalidPagination
	}

	if _, err := s.userService.GetByID(ctx, viewerID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListOthers(ctx, viewerID, from, size)
	if err != nil {
		return nil, err
	}

	return s.withItemsAll(ctx, requests)
}

func (s *service) withItems(ctx context.Context, req *ItemRequest) (*WithItems, error) {
	items, err := s.itemService.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &WithItems{ItemRequest: *req, Items: items}, nil
}

func (s *service) withItemsAll(ctx context.Context, requests []*ItemRequest) ([]*WithItems, error) {
	result := make([]*WithItems, len(requests))
	for i, req := range requests {
		wi, err := s.withItems(ctx, req)
		if err != nil {
			return nil, err
		}
		result[i] = wi
	}

	return result, nil
}
