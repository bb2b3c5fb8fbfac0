package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing item and comment data from storage.
type Repository interface {
	Create(ctx context.Context, i *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Item, error)
	ListByRequest(ctx context.Context, requestID string) ([]*Item, error)
	Update(ctx context.Context, i *Item) error
	Delete(ctx context.Context, id string) error

	// Search returns available items whose name or description contains the
	// text, case-insensitively.
	Search(ctx context.Context, text string) ([]*Item, error)

	CreateComment(ctx context.Context, cm *Comment) error
	CommentsByItem(ctx context.Context, itemID string) ([]*Comment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, i *Item) error {
	const query = `
		INSERT INTO public.items (name, description, available, owner_id, request_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if err := r.pool.QueryRow(ctx, query,
		i.Name, i.Description, i.Available, i.OwnerID, i.RequestID,
	).Scan(&i.ID); err != nil {
		return fmt.Errorf("create item failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	const query = `
		SELECT id, name, description, available, owner_id, request_id
		FROM public.items
		WHERE id = $1
	`

	var i Item
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID, &i.RequestID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}

	return &i, nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Item, error) {
	const query = `
		SELECT id, name, description, available, owner_id, request_id
		FROM public.items
		WHERE owner_id = $1
		ORDER BY id
	`

	return r.queryItems(ctx, query, ownerID)
}

func (r *pgxRepository) ListByRequest(ctx context.Context, requestID string) ([]*Item, error) {
	const query = `
		SELECT id, name, description, available, owner_id, request_id
		FROM public.items
		WHERE request_id = $1
		ORDER BY id
	`

	return r.queryItems(ctx, query, requestID)
}

func (r *pgxRepository) Update(ctx context.Context, i *Item) error {
	const query = `
		UPDATE public.items
		SET name = $1, description = $2, available = $3, request_id = $4
		WHERE id = $5
	`

	ct, err := r.pool.Exec(ctx, query, i.Name, i.Description, i.Available, i.RequestID, i.ID)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `
		DELETE FROM public.items
		WHERE id = $1
	`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxRepository) Search(ctx context.Context, text string) ([]*Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	pattern := "%" + text + "%"

	query, args, err := psql.Select("id", "name", "description", "available", "owner_id", "request_id").
		From("public.items").
		Where(squirrel.Eq{"available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search items query failed: %w", err)
	}

	return r.queryItems(ctx, query, args...)
}

func (r *pgxRepository) queryItems(ctx context.Context, query string, args ...any) ([]*Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID, &i.RequestID); err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, &i)
	}

	return items, rows.Err()
}

func (r *pgxRepository) CreateComment(ctx context.Context, cm *Comment) error {
	const query = `
		INSERT INTO public.comments (item_id, author_id, text, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := r.pool.QueryRow(ctx, query,
		cm.ItemID, cm.AuthorID, cm.Text, cm.Created,
	).Scan(&cm.ID); err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) CommentsByItem(ctx context.Context, itemID string) ([]*Comment, error) {
	const query = `
		SELECT c.id, c.item_id, c.author_id, u.name, c.text, c.created_at
		FROM public.comments c
		JOIN public.users u ON c.author_id = u.id
		WHERE c.item_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.ItemID, &cm.AuthorID, &cm.AuthorName, &cm.Text, &cm.Created); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, &cm)
	}

	return comments, rows.Err()
}
