package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/centraldesk/helpdesk-service/internal/api/dto"
	"github.com/centraldesk/helpdesk-service/internal/service"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

// UsersHandler exposes the user directory endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// CreateUser POST /api/users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid payload")
	}

	user, err := h.service.CreateUser(c.UserContext(), service.UserCreateInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Role:       req.Role,
		Department: req.Department,
		Status:     req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("user created", dto.NewUserResponse(user)))
}

// ListUsers GET /api/users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(dto.OK(fmt.Sprintf("%d users found", len(result)), result))
}

// GetUser GET /api/users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("user fetched", dto.NewUserResponse(user)))
}

// UpdateUser PUT /api/users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid payload")
	}

	user, err := h.service.UpdateUser(c.UserContext(), c.Params("id"), service.UserUpdateInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Role:       req.Role,
		Department: req.Department,
		Status:     req.Status,
		LastLogin:  req.LastLogin,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("user updated", dto.NewUserResponse(user)))
}

// DeleteUser DELETE /api/users/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OK("user deleted", nil))
}
