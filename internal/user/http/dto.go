package http

import "github.com/itemshare/backend/internal/user"

type CreateUserBody struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required"`
}

type UpdateUserBody struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
