package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/centraldesk/helpdesk-service/internal/domain"
	"github.com/centraldesk/helpdesk-service/internal/repository"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

// UserService manages the user directory.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{users: userRepo}
}

// UserCreateInput describes user creation payload.
type UserCreateInput struct {
	Name       string
	Email      string
	Phone      *string
	Role       string
	Department *string
	Status     string
}

// UserUpdateInput describes a partial user update. Nil fields are left
// untouched.
type UserUpdateInput struct {
	Name       *string
	Email      *string
	Phone      *string
	Role       *string
	Department *string
	Status     *string
	LastLogin  *time.Time
}

// CreateUser validates input and persists a new user. Email addresses are
// unique across the directory.
func (s *UserService) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > 100 {
		return nil, apperr.InvalidInput("name is required and must be at most 100 characters")
	}
	email := strings.TrimSpace(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.InvalidInput("email must be valid")
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:       name,
		Email:      email,
		Phone:      input.Phone,
		Role:       input.Role,
		Department: input.Department,
		Status:     input.Status,
	}
	if user.Role == "" {
		user.Role = domain.DefaultUserRole
	}
	if user.Status == "" {
		user.Status = domain.DefaultUserStatus
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperr.Wrap("create user", err)
	}
	return user, nil
}

// ListUsers returns all users, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.Wrap("list users", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// GetUser fetches a single user.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, apperr.InvalidInput("id is required")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("fetch user", err)
	}
	return user, nil
}

// UpdateUser applies a partial update, re-checking email uniqueness when the
// address changes.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > 100 {
			return nil, apperr.InvalidInput("name is required and must be at most 100 characters")
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperr.InvalidInput("email must be valid")
		}
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Department != nil {
		user.Department = input.Department
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.LastLogin != nil {
		user.LastLogin = input.LastLogin
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperr.Wrap("update user", err)
	}
	return user, nil
}

// DeleteUser removes a user from the directory.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return apperr.InvalidInput("id is required")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperr.Wrap("delete user", err)
	}
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindNotFound {
			return nil
		}
		return apperr.Wrap("check email uniqueness", err)
	}
	if existing != nil {
		return apperr.Conflict("email already registered")
	}
	return nil
}
