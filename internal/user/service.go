package user

import (
	"context"
	"strings"
)

// Service defines business logic related to users.
type Service interface {
	Create(ctx context.Context, name, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id string, upd Update) (*User, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

// NewService creates a new user Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, name, email string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !isValidEmail(email) {
		return nil, ErrEmailInvalid
	}

	u := &User{
		Name:  strings.TrimSpace(name),
		Email: email,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id string, upd Update) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil && strings.TrimSpace(*upd.Email) != "" {
		email := strings.TrimSpace(*upd.Email)
		if !isValidEmail(email) {
			return nil, ErrEmailInvalid
		}
		u.Email = email
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		u.Name = strings.TrimSpace(*upd.Name)
	}

	// Email uniqueness is enforced by the database; the repository maps the
	// unique violation to ErrEmailConflict.
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// isValidEmail performs a minimal shape check: an "@" followed by a dot
// somewhere after it.
func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.LastIndex(email, ".") > at
}
