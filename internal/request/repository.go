package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing item request data from storage.
type Repository interface {
	Create(ctx context.Context, r *ItemRequest) error
	GetByID(ctx context.Context, id string) (*ItemRequest, error)
	// ListByRequester returns the user's own requests, newest first.
	ListByRequester(ctx context.Context, requesterID string) ([]*ItemRequest, error)
	// ListOthers returns requests made by everyone except the user, newest
	// first, paginated by offset and limit.
	ListOthers(ctx context.Context, requesterID string, from, size int) ([]*ItemRequest, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, req *ItemRequest) error {
	const query = `
		INSERT INTO public.requests (description, requester_id, created)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if err := r.pool.QueryRow(ctx, query,
		req.Description, req.RequesterID, req.Created,
	).Scan(&req.ID); err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*ItemRequest, error) {
	const query = `
		SELECT id, description, requester_id, created
		FROM public.requests
		WHERE id = $1
	`

	var req ItemRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.Description, &req.RequesterID, &req.Created,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request failed: %w", err)
	}

	return &req, nil
}

func (r *pgxRepository) ListByRequester(ctx context.Context, requesterID string) ([]*ItemRequest, error) {
	const query = `
		SELECT id, description, requester_id, created
		FROM public.requests
		WHERE requester_id = $1
		ORDER BY created DESC
	`

	rows, err := r.pool.Query(ctx, query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list requests failed: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

func (r *pgxRepository) ListOthers(ctx context.Context, requesterID string, from, size int) ([]*ItemRequest, error) {
	const query = `
		SELECT id, description, requester_id, created
		FROM public.requests
		WHERE requester_id <> $1
		ORDER BY created DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, requesterID, from, size)
	if err != nil {
		return nil, fmt.Errorf("list other requests failed: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

func scanRequests(rows pgx.Rows) ([]*ItemRequest, error) {
	var requests []*ItemRequest
	for rows.Next() {
		var req ItemRequest
		if err := rows.Scan(&req.ID, &req.Description, &req.RequesterID, &req.Created); err != nil {
			return nil, fmt.Errorf("scan request failed: %w", err)
		}
		requests = append(requests, &req)
	}

	return requests, rows.Err()
}
