package dto

import (
	"time"

	"github.com/centraldesk/helpdesk-service/internal/domain"
)

// CreateUserRequest payload.
type CreateUserRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
	Status     string  `json:"status"`
}

// UpdateUserRequest payload. Nil fields are left untouched.
type UpdateUserRequest struct {
	Name       *string    `json:"name"`
	Email      *string    `json:"email"`
	Phone      *string    `json:"phone"`
	Role       *string    `json:"role"`
	Department *string    `json:"department"`
	Status     *string    `json:"status"`
	LastLogin  *time.Time `json:"last_login"`
}

// UserResponse is the wire form of a directory user.
type UserResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      *string    `json:"phone,omitempty"`
	Role       string     `json:"role"`
	Department *string    `json:"department,omitempty"`
	Status     string     `json:"status"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewUserResponse maps a domain user to its wire form.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      user.Phone,
		Role:       user.Role,
		Department: user.Department,
		Status:     user.Status,
		LastLogin:  user.LastLogin,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}
