package booking

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itemshare/backend/internal/item"
	"github.com/itemshare/backend/internal/pkg/clock"
	"github.com/itemshare/backend/internal/user"
)

// fakeRepo is an in-memory Repository mirroring the storage semantics the pgx
// implementation expresses in SQL.
type fakeRepo struct {
	bookings map[string]*Booking
	seq      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[string]*Booking{}}
}

func (r *fakeRepo) Create(_ context.Context, b *Booking) error {
	r.seq++
	b.ID = fmt.Sprintf("booking-%d", r.seq)
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, scope Scope, userID string, state State, now time.Time) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if scope == ScopeOwner && b.ItemOwnerID != userID {
			continue
		}
		if scope == ScopeBooker && b.BookerID != userID {
			continue
		}
		switch state {
		case StateCurrent:
			if b.Start.After(now) || b.End.Before(now) {
				continue
			}
		case StatePast:
			if !b.End.Before(now) {
				continue
			}
		case StateFuture:
			if !b.Start.After(now) {
				continue
			}
		case StateWaiting:
			if b.Status != StatusWaiting {
				continue
			}
		case StateRejected:
			if b.Status != StatusRejected {
				continue
			}
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	return out, nil
}

func (r *fakeRepo) UpdateStatusIfWaiting(_ context.Context, id string, to Status) error {
	b, ok := r.bookings[id]
	if !ok || b.Status != StatusWaiting {
		return ErrAlreadyDecided
	}
	b.Status = to
	return nil
}

func (r *fakeRepo) LastCompleted(_ context.Context, itemID string, now time.Time) (*Booking, error) {
	var best *Booking
	for _, b := range r.bookings {
		if b.ItemID != itemID || b.Status != StatusApproved || !b.End.Before(now) {
			continue
		}
		if best == nil || b.End.After(best.End) {
			best = b
		}
	}
	return copyBooking(best), nil
}

func (r *fakeRepo) NextUpcoming(_ context.Context, itemID string, now time.Time) (*Booking, error) {
	var best *Booking
	for _, b := range r.bookings {
		if b.ItemID != itemID || b.Status != StatusApproved || !b.Start.After(now) {
			continue
		}
		if best == nil || b.Start.Before(best.Start) {
			best = b
		}
	}
	return copyBooking(best), nil
}

func (r *fakeRepo) ActiveAt(_ context.Context, itemID string, now time.Time) (*Booking, error) {
	for _, b := range r.bookings {
		if b.ItemID == itemID && b.Status == StatusApproved && !b.Start.After(now) && !b.End.Before(now) {
			return copyBooking(b), nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) HasCompleted(_ context.Context, itemID, bookerID string, now time.Time) (bool, error) {
	for _, b := range r.bookings {
		if b.ItemID == itemID && b.BookerID == bookerID && b.Status == StatusApproved && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func copyBooking(b *Booking) *Booking {
	if b == nil {
		return nil
	}
	cp := *b
	return &cp
}

// stubUsers and stubItems satisfy the service interfaces by embedding; only
// the methods the booking service calls are implemented.

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

type stubItems struct {
	item.Service
	items map[string]*item.Item
}

func (s stubItems) Find(_ context.Context, id string) (*item.Item, error) {
	i, ok := s.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return i, nil
}

var testNow = time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *fakeRepo
	service Service
}

func newFixture() fixture {
	repo := newFakeRepo()
	users := stubUsers{users: map[string]*user.User{
		"owner":  {ID: "owner", Name: "Olga"},
		"booker": {ID: "booker", Name: "Boris"},
		"other":  {ID: "other", Name: "Oscar"},
	}}
	items := stubItems{items: map[string]*item.Item{
		"drill": {ID: "drill", Name: "Drill", Available: true, OwnerID: "owner"},
		"saw":   {ID: "saw", Name: "Saw", Available: false, OwnerID: "owner"},
	}}
	return fixture{
		repo:    repo,
		service: NewService(repo, items, users, clock.Fixed(testNow)),
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture()

	b, err := f.service.Create(context.Background(), CreateRequest{
		ItemID:   "drill",
		BookerID: "booker",
		Start:    testNow.Add(time.Hour),
		End:      testNow.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusWaiting, b.Status)
	assert.Equal(t, "Drill", b.ItemName)
	assert.Equal(t, "owner", b.ItemOwnerID)
	assert.Equal(t, "Boris", b.BookerName)
}

func TestCreateBookingRejections(t *testing.T) {
	f := newFixture()
	start := testNow.Add(time.Hour)
	end := testNow.Add(2 * time.Hour)

	cases := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{
			name:    "unavailable item",
			req:     CreateRequest{ItemID: "saw", BookerID: "booker", Start: start, End: end},
			wantErr: ErrItemUnavailable,
		},
		{
			name:    "owner books own item",
			req:     CreateRequest{ItemID: "drill", BookerID: "owner", Start: start, End: end},
			wantErr: ErrOwnBooking,
		},
		{
			name:    "end before start",
			req:     CreateRequest{ItemID: "drill", BookerID: "booker", Start: end, End: start},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "zero-length range",
			req:     CreateRequest{ItemID: "drill", BookerID: "booker", Start: start, End: start},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "start in the past",
			req:     CreateRequest{ItemID: "drill", BookerID: "booker", Start: testNow.Add(-time.Hour), End: end},
			wantErr: ErrStartTimePast,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	assert.Empty(t, f.repo.bookings, "no rejected request may persist a booking")
}

func TestCreateBookingUnknownActors(t *testing.T) {
	f := newFixture()
	start := testNow.Add(time.Hour)
	end := testNow.Add(2 * time.Hour)

	_, err := f.service.Create(context.Background(), CreateRequest{
		ItemID: "drill", BookerID: "ghost", Start: start, End: end,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user with id=ghost")

	_, err = f.service.Create(context.Background(), CreateRequest{
		ItemID: "hovercraft", BookerID: "booker", Start: start, End: end,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item with id=hovercraft")
}

func mustCreate(t *testing.T, f fixture, start, end time.Time) *Booking {
	t.Helper()
	b, err := f.service.Create(context.Background(), CreateRequest{
		ItemID: "drill", BookerID: "booker", Start: start, End: end,
	})
	require.NoError(t, err)
	return b
}

func TestDecide(t *testing.T) {
	f := newFixture()
	b := mustCreate(t, f, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	decided, err := f.service.Decide(context.Background(), b.ID, true, "owner")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, decided.Status)

	stored, err := f.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)
}

func TestDecideReject(t *testing.T) {
	f := newFixture()
	b := mustCreate(t, f, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	decided, err := f.service.Decide(context.Background(), b.ID, false, "owner")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, decided.Status)
}

func TestDecideOnlyOnce(t *testing.T) {
	f := newFixture()
	b := mustCreate(t, f, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	_, err := f.service.Decide(context.Background(), b.ID, true, "owner")
	require.NoError(t, err)

	// Any further decision loses, including flipping the outcome.
	_, err = f.service.Decide(context.Background(), b.ID, false, "owner")
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	stored, err := f.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)
}

func TestDecideAuthorization(t *testing.T) {
	f := newFixture()
	b := mustCreate(t, f, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	_, err := f.service.Decide(context.Background(), b.ID, true, "booker")
	assert.ErrorIs(t, err, ErrNotItemOwner)

	_, err = f.service.Decide(context.Background(), b.ID, true, "other")
	assert.ErrorIs(t, err, ErrNotItemOwner)

	_, err = f.service.Decide(context.Background(), "missing", true, "owner")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByIDAuthorization(t *testing.T) {
	f := newFixture()
	b := mustCreate(t, f, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	got, err := f.service.GetByID(context.Background(), b.ID, "booker")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	got, err = f.service.GetByID(context.Background(), b.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	// A third party gets the same error as for a missing booking.
	_, err = f.service.GetByID(context.Background(), b.ID, "other")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.GetByID(context.Background(), "missing", "booker")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListStates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	seed := func(start, end time.Time, status Status) *Booking {
		b := &Booking{
			ItemID: "drill", ItemName: "Drill", ItemOwnerID: "owner",
			BookerID: "booker", BookerName: "Boris",
			Start: start, End: end, Status: status,
		}
		require.NoError(t, f.repo.Create(ctx, b))
		return b
	}

	past := seed(testNow.Add(-48*time.Hour), testNow.Add(-24*time.Hour), StatusApproved)
	current := seed(testNow.Add(-time.Hour), testNow.Add(time.Hour), StatusApproved)
	future := seed(testNow.Add(24*time.Hour), testNow.Add(48*time.Hour), StatusWaiting)
	rejected := seed(testNow.Add(72*time.Hour), testNow.Add(96*time.Hour), StatusRejected)

	ids := func(bs []*Booking) []string {
		out := make([]string, len(bs))
		for i, b := range bs {
			out[i] = b.ID
		}
		return out
	}

	cases := []struct {
		state State
		want  []string // newest start first
	}{
		{StateAll, []string{rejected.ID, future.ID, current.ID, past.ID}},
		{StateCurrent, []string{current.ID}},
		{StatePast, []string{past.ID}},
		{StateFuture, []string{rejected.ID, future.ID}},
		{StateWaiting, []string{future.ID}},
		{StateRejected, []string{rejected.ID}},
	}

	for _, tc := range cases {
		t.Run(tc.state.String(), func(t *testing.T) {
			got, err := f.service.ListForBooker(ctx, "booker", tc.state)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got))

			got, err = f.service.ListForOwner(ctx, "owner", tc.state)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got))
		})
	}

	// The same categories are empty from an uninvolved user's perspective.
	got, err := f.service.ListForBooker(ctx, "other", StateAll)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = f.service.ListForBooker(ctx, "ghost", StateAll)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user with id=ghost")
}
