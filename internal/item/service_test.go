package item

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itemshare/backend/internal/pkg/clock"
	"github.com/itemshare/backend/internal/user"
)

type fakeRepo struct {
	items    map[string]*Item
	comments map[string][]*Comment
	seq      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]*Item{}, comments: map[string][]*Comment{}}
}

func (r *fakeRepo) Create(_ context.Context, i *Item) error {
	r.seq++
	i.ID = fmt.Sprintf("item-%d", r.seq)
	cp := *i
	r.items[i.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Item, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, ownerID string) ([]*Item, error) {
	var out []*Item
	for _, i := range r.items {
		if i.OwnerID == ownerID {
			cp := *i
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByRequest(_ context.Context, requestID string) ([]*Item, error) {
	var out []*Item
	for _, i := range r.items {
		if i.RequestID != nil && *i.RequestID == requestID {
			cp := *i
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, i *Item) error {
	if _, ok := r.items[i.ID]; !ok {
		return ErrNotFound
	}
	cp := *i
	r.items[i.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeRepo) Search(_ context.Context, text string) ([]*Item, error) {
	needle := strings.ToLower(text)
	var out []*Item
	for _, i := range r.items {
		if !i.Available {
			continue
		}
		if strings.Contains(strings.ToLower(i.Name), needle) ||
			strings.Contains(strings.ToLower(i.Description), needle) {
			cp := *i
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateComment(_ context.Context, cm *Comment) error {
	r.seq++
	cm.ID = fmt.Sprintf("comment-%d", r.seq)
	cp := *cm
	r.comments[cm.ItemID] = append(r.comments[cm.ItemID], &cp)
	return nil
}

func (r *fakeRepo) CommentsByItem(_ context.Context, itemID string) ([]*Comment, error) {
	return r.comments[itemID], nil
}

type stubUsers struct {
	user.Service
	users map[string]*user.User
}

func (s stubUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

// stubBookings returns canned summaries, or fails every lookup when err is set.
type stubBookings struct {
	last      *BookingSummary
	next      *BookingSummary
	completed bool
	err       error
}

func (s stubBookings) LastBooking(context.Context, string, time.Time) (*BookingSummary, error) {
	return s.last, s.err
}

func (s stubBookings) NextBooking(context.Context, string, time.Time) (*BookingSummary, error) {
	return s.next, s.err
}

func (s stubBookings) HasCompletedBooking(context.Context, string, string, time.Time) (bool, error) {
	return s.completed, s.err
}

var testNow = time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

func newService(repo *fakeRepo, bookings BookingProvider) Service {
	users := stubUsers{users: map[string]*user.User{
		"owner":  {ID: "owner", Name: "Olga"},
		"renter": {ID: "renter", Name: "Rita"},
	}}
	return NewService(repo, users, bookings, clock.Fixed(testNow))
}

func seedItem(t *testing.T, s Service, available bool) *Item {
	t.Helper()
	i, err := s.Create(context.Background(), CreateRequest{
		OwnerID:     "owner",
		Name:        "Drill",
		Description: "Cordless drill",
		Available:   &available,
	})
	require.NoError(t, err)
	return i
}

func TestCreateItemValidation(t *testing.T) {
	s := newService(newFakeRepo(), stubBookings{})
	available := true

	cases := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{"blank name", CreateRequest{OwnerID: "owner", Name: "  ", Description: "d", Available: &available}, ErrNameRequired},
		{"blank description", CreateRequest{OwnerID: "owner", Name: "n", Description: "", Available: &available}, ErrDescriptionRequired},
		{"missing available", CreateRequest{OwnerID: "owner", Name: "n", Description: "d"}, ErrAvailableRequired},
		{"unknown owner", CreateRequest{OwnerID: "ghost", Name: "n", Description: "d", Available: &available}, user.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestGetByIDEnrichment(t *testing.T) {
	repo := newFakeRepo()
	last := &BookingSummary{ID: "b1", BookerID: "renter", Start: testNow.Add(-2 * time.Hour), End: testNow.Add(-time.Hour)}
	next := &BookingSummary{ID: "b2", BookerID: "renter", Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour)}
	s := newService(repo, stubBookings{last: last, next: next})

	i := seedItem(t, s, true)

	// The owner sees the booking summaries.
	wb, err := s.GetByID(context.Background(), i.ID, "owner")
	require.NoError(t, err)
	require.NotNil(t, wb.LastBooking)
	require.NotNil(t, wb.NextBooking)
	assert.Equal(t, "b1", wb.LastBooking.ID)
	assert.Equal(t, "b2", wb.NextBooking.ID)

	// Anyone else sees the item without them.
	wb, err = s.GetByID(context.Background(), i.ID, "renter")
	require.NoError(t, err)
	assert.Nil(t, wb.LastBooking)
	assert.Nil(t, wb.NextBooking)
}

func TestEnrichmentAbsorbsLookupFailures(t *testing.T) {
	repo := newFakeRepo()
	s := newService(repo, stubBookings{err: errors.New("summaries unavailable")})

	i := seedItem(t, s, true)

	wb, err := s.GetByID(context.Background(), i.ID, "owner")
	require.NoError(t, err)
	assert.Nil(t, wb.LastBooking)
	assert.Nil(t, wb.NextBooking)
}

func TestUpdateItem(t *testing.T) {
	repo := newFakeRepo()
	s := newService(repo, stubBookings{})
	i := seedItem(t, s, true)

	available := false
	updated, err := s.Update(context.Background(), i.ID, "owner", Update{Available: &available})
	require.NoError(t, err)

	// Only the sent field changes.
	assert.False(t, updated.Available)
	assert.Equal(t, "Drill", updated.Name)
	assert.Equal(t, "Cordless drill", updated.Description)
}

func TestUpdateItemNotOwner(t *testing.T) {
	repo := newFakeRepo()
	s := newService(repo, stubBookings{})
	i := seedItem(t, s, true)

	name := "Stolen drill"
	_, err := s.Update(context.Background(), i.ID, "renter", Update{Name: &name})
	assert.ErrorIs(t, err, ErrNotOwner)

	stored, err := repo.GetByID(context.Background(), i.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drill", stored.Name)
}

func TestSearch(t *testing.T) {
	repo := newFakeRepo()
	s := newService(repo, stubBookings{})
	seedItem(t, s, true)
	seedItem(t, s, false) // unavailable duplicate never shows up

	found, err := s.Search(context.Background(), "dRiLl")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[0].Available)

	// Blank text short-circuits to an empty result.
	found, err = s.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestAddComment(t *testing.T) {
	repo := newFakeRepo()
	s := newService(repo, stubBookings{completed: true})
	i := seedItem(t, s, true)

	cm, err := s.AddComment(context.Background(), i.ID, "renter", "Great drill")
	require.NoError(t, err)
	assert.Equal(t, "Rita", cm.AuthorName)
	assert.Equal(t, testNow, cm.Created)

	wb, err := s.GetByID(context.Background(), i.ID, "renter")
	require.NoError(t, err)
	require.Len(t, wb.Comments, 1)
	assert.Equal(t, "Great drill", wb.Comments[0].Text)
}

func TestAddCommentRequiresCompletedRental(t *testing.T) {
	repo := newFakeRepo()
	s := newService(repo, stubBookings{completed: false})
	i := seedItem(t, s, true)

	_, err := s.AddComment(context.Background(), i.ID, "renter", "Never touched it")
	assert.ErrorIs(t, err, ErrCommentNotAllowed)
	assert.Empty(t, repo.comments[i.ID])
}
