package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "userbase/internal/errors"
	"userbase/internal/middleware"
	"userbase/internal/model"
	"userbase/internal/service"
	"userbase/internal/validation"
)

// UserHandler bundles user management endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateUserRequest represents a partial user update payload. Fields use
// omitnil so an absent field is skipped but a present empty value still fails
// its constraint.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=2,max=255"`
	Email    *string `json:"email" validate:"omitnil,email,max=255"`
	Password *string `json:"password" validate:"omitnil,min=6,max=128"`
	Role     *string `json:"role" validate:"omitnil,oneof=user admin"`
}

// ListUsers godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list users: %v", err)
		return c.JSON(http.StatusInternalServerError, apperrors.Internal())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Users retrieved successfully",
		"users":   users,
	})
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationFailed("User ID must be a positive integer"))
	}

	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, apperrors.NotFound("User not found"))
		}
		c.Logger().Errorf("get user %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, apperrors.Internal())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User retrieved successfully",
		"user":    user,
	})
}

// UpdateUser godoc
// @Summary Update a user
// @Description Users may update their own record; admins may update anyone.
// Only admins may change roles.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationFailed("User ID must be a positive integer"))
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationFailed("invalid request body"))
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		req.Email = &trimmed
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationFailed(validation.FormatErrors(err)))
	}

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, apperrors.Unauthorized("Authentication is required"))
	}

	isAdmin := claims.Role == model.RoleAdmin

	if claims.UserID != id && !isAdmin {
		return c.JSON(http.StatusForbidden, apperrors.Forbidden("You can only update your own information"))
	}
	if req.Role != nil && !isAdmin {
		return c.JSON(http.StatusForbidden, apperrors.Forbidden("Only administrators can change user roles"))
	}
	// Non-admins updating themselves never carry a role change past this point.
	if claims.UserID == id && !isAdmin {
		req.Role = nil
	}

	user, err := h.svc.UpdateUser(c.Request().Context(), id, service.UserUpdates{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, apperrors.NotFound("User not found"))
		}
		if errors.Is(err, apperrors.ErrEmailExists) {
			return c.JSON(http.StatusConflict, apperrors.ErrorResponse{Error: "email already exist"})
		}
		c.Logger().Errorf("update user %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, apperrors.Internal())
	}

	c.Logger().Infof("user updated: %d", id)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationFailed("User ID must be a positive integer"))
	}

	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, apperrors.NotFound("User not found"))
		}
		c.Logger().Errorf("delete user %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, apperrors.Internal())
	}

	c.Logger().Infof("user deleted: %d", id)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User deleted successfully",
	})
}

func userIDParam(c echo.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
