package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing booking data from storage.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)

	// List returns bookings matching the state category for the user, scoped
	// either by booker or by item owner, ordered by start time descending.
	List(ctx context.Context, scope Scope, userID string, state State, now time.Time) ([]*Booking, error)

	// UpdateStatusIfWaiting transitions the booking out of WAITING in a single
	// conditional write. It returns ErrAlreadyDecided if the booking exists
	// but is no longer WAITING.
	UpdateStatusIfWaiting(ctx context.Context, id string, to Status) error

	// LastCompleted returns the approved booking that ended most recently
	// before now, or nil if there is none.
	LastCompleted(ctx context.Context, itemID string, now time.Time) (*Booking, error)
	// NextUpcoming returns the soonest approved booking starting after now,
	// or nil if there is none.
	NextUpcoming(ctx context.Context, itemID string, now time.Time) (*Booking, error)
	// ActiveAt returns an approved booking in progress at now, or nil.
	ActiveAt(ctx context.Context, itemID string, now time.Time) (*Booking, error)

	// HasCompleted reports whether the booker has an approved booking of the
	// item that ended before now.
	HasCompleted(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error)
}

const bookingColumns = `b.id, b.item_id, i.name, i.owner_id, b.booker_id, u.name,
	b.start_time, b.end_time, b.status`

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	const query = `
		INSERT INTO public.bookings (item_id, booker_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if err := r.pool.QueryRow(ctx, query,
		b.ItemID, b.BookerID, b.Start, b.End, b.Status,
	).Scan(&b.ID); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM public.bookings b
		JOIN public.items i ON b.item_id = i.id
		JOIN public.users u ON b.booker_id = u.id
		WHERE b.id = $1
	`

	b, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}

	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, scope Scope, userID string, state State, now time.Time) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
		"b.start_time", "b.end_time", "b.status",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")

	switch scope {
	case ScopeOwner:
		query = query.Where(squirrel.Eq{"i.owner_id": userID})
	default:
		query = query.Where(squirrel.Eq{"b.booker_id": userID})
	}

	switch state {
	case StateAll:
		// no filter
	case StateCurrent:
		query = query.Where(squirrel.LtOrEq{"b.start_time": now}).
			Where(squirrel.GtOrEq{"b.end_time": now})
	case StatePast:
		query = query.Where(squirrel.Lt{"b.end_time": now})
	case StateFuture:
		query = query.Where(squirrel.Gt{"b.start_time": now})
	case StateWaiting:
		query = query.Where(squirrel.Eq{"b.status": StatusWaiting})
	case StateRejected:
		query = query.Where(squirrel.Eq{"b.status": StatusRejected})
	}

	query = query.OrderBy("b.start_time DESC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

func (r *pgxRepository) UpdateStatusIfWaiting(ctx context.Context, id string, to Status) error {
	const query = `
		UPDATE public.bookings
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	ct, err := r.pool.Exec(ctx, query, to, id, StatusWaiting)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrAlreadyDecided
	}

	return nil
}

func (r *pgxRepository) LastCompleted(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM public.bookings b
		JOIN public.items i ON b.item_id = i.id
		JOIN public.users u ON b.booker_id = u.id
		WHERE b.item_id = $1 AND b.status = $2 AND b.end_time < $3
		ORDER BY b.end_time DESC
		LIMIT 1
	`

	return r.pointLookup(ctx, query, itemID, StatusApproved, now)
}

func (r *pgxRepository) NextUpcoming(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM public.bookings b
		JOIN public.items i ON b.item_id = i.id
		JOIN public.users u ON b.booker_id = u.id
		WHERE b.item_id = $1 AND b.status = $2 AND b.start_time > $3
		ORDER BY b.start_time ASC
		LIMIT 1
	`

	return r.pointLookup(ctx, query, itemID, StatusApproved, now)
}

func (r *pgxRepository) ActiveAt(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM public.bookings b
		JOIN public.items i ON b.item_id = i.id
		JOIN public.users u ON b.booker_id = u.id
		WHERE b.item_id = $1 AND b.status = $2 AND b.start_time <= $3 AND b.end_time >= $3
		ORDER BY b.start_time DESC
		LIMIT 1
	`

	return r.pointLookup(ctx, query, itemID, StatusApproved, now)
}

func (r *pgxRepository) HasCompleted(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.bookings
			WHERE item_id = $1 AND booker_id = $2 AND status = $3 AND end_time < $4
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, itemID, bookerID, StatusApproved, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("check completed booking failed: %w", err)
	}

	return exists, nil
}

// pointLookup runs a LIMIT 1 booking query where an empty result is a normal
// outcome, not an error.
func (r *pgxRepository) pointLookup(ctx context.Context, query string, args ...any) (*Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("booking lookup failed: %w", err)
	}

	return b, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
