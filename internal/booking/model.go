package booking

import (
	"net/http"
	"strings"
	"time"

	"github.com/itemshare/backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrStartTimePast    = apperror.New(http.StatusBadRequest, "start time must not be in the past")
	ErrItemUnavailable  = apperror.New(http.StatusBadRequest, "item is not available for booking")
	ErrAlreadyDecided   = apperror.New(http.StatusBadRequest, "booking status has already been decided")
	ErrNotItemOwner     = apperror.New(http.StatusForbidden, "only the item owner can decide a booking")
)

// Status is the lifecycle state of a single booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	// StatusCanceled exists in storage for bookings withdrawn outside the
	// approval flow; no transition in this service produces it.
	StatusCanceled Status = "CANCELED"
)

// State is the temporal/status category a listing request asks for.
type State int

const (
	StateAll State = iota
	StateCurrent
	StatePast
	StateFuture
	StateWaiting
	StateRejected
)

var stateNames = map[string]State{
	"ALL":      StateAll,
	"CURRENT":  StateCurrent,
	"PAST":     StatePast,
	"FUTURE":   StateFuture,
	"WAITING":  StateWaiting,
	"REJECTED": StateRejected,
}

// ParseState resolves a state token case-insensitively. An empty token means
// ALL. Unknown tokens are a validation error.
func ParseState(s string) (State, error) {
	if s == "" {
		return StateAll, nil
	}
	st, ok := stateNames[strings.ToUpper(s)]
	if !ok {
		return 0, apperror.Newf(http.StatusBadRequest, "unknown state: %s", s)
	}
	return st, nil
}

func (s State) String() string {
	for name, st := range stateNames {
		if st == s {
			return name
		}
	}
	return "ALL"
}

// Scope selects whose bookings a listing query covers: those requested by the
// user, or those placed on the user's items.
type Scope int

const (
	ScopeBooker Scope = iota
	ScopeOwner
)

// Booking is one reservation request/confirmation. Item and booker names and
// the item's owner are denormalized on read for response assembly and
// authorization checks.
type Booking struct {
	ID          string // UUID
	ItemID      string
	ItemName    string
	ItemOwnerID string
	BookerID    string
	BookerName  string
	Start       time.Time
	End         time.Time
	Status      Status
}
