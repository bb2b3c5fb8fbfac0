package user

import (
	"net/http"

	"github.com/itemshare/backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailRequired = apperror.New(http.StatusBadRequest, "email must not be empty")
	ErrEmailInvalid  = apperror.New(http.StatusBadRequest, "email has invalid format")
	ErrEmailConflict = apperror.New(http.StatusConflict, "user with this email already exists")
)

// User is someone who lists items or books them.
type User struct {
	ID    string // UUID
	Name  string
	Email string
}

// Update carries a partial user update; nil fields are left unchanged.
type Update struct {
	Name  *string
	Email *string
}
