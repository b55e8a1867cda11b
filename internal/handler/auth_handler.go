package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"userbase/internal/auth"
	apperrors "userbase/internal/errors"
	"userbase/internal/model"
	"userbase/internal/service"
	"userbase/internal/validation"
)

const tokenCookieName = "token"

// AuthHandler handles sign-up, sign-in and sign-out.
type AuthHandler struct {
	authService  service.AuthService
	jwtService   *auth.JWTService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie marks the session
// cookie Secure, which is wanted everywhere except local development.
func NewAuthHandler(authService service.AuthService, jwtService *auth.JWTService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		jwtService:   jwtService,
		secureCookie: secureCookie,
	}
}

// SignUpRequest represents a registration payload. Role is a pointer so an
// absent field defaults to "user" while an explicit empty string is rejected.
type SignUpRequest struct {
	Name     string  `json:"name" validate:"min=2,max=255"`
	Email    string  `json:"email" validate:"email,max=255"`
	Password string  `json:"password" validate:"min=6,max=128"`
	Role     *string `json:"role" validate:"omitnil,oneof=user admin"`
}

// SignInRequest represents a login payload.
type SignInRequest struct {
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"min=1"`
}

// SignUp godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationFailed("invalid request body"))
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationFailed(validation.FormatErrors(err)))
	}

	role := model.RoleUser
	if req.Role != nil {
		role = *req.Role
	}

	user, err := h.authService.SignUp(c.Request().Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailExists) {
			return c.JSON(http.StatusConflict, apperrors.ErrorResponse{Error: "email already exist"})
		}
		c.Logger().Errorf("sign-up: %v", err)
		return c.JSON(http.StatusInternalServerError, apperrors.Internal())
	}

	token, err := h.jwtService.Sign(user.ID, user.Email, user.Role)
	if err != nil {
		c.Logger().Errorf("sign token: %v", err)
		return c.JSON(http.StatusInternalServerError, apperrors.Internal())
	}
	h.setTokenCookie(c, token)

	c.Logger().Infof("user signed up: %s", user.Email)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// SignIn godoc
// @Summary Authenticate a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationFailed("invalid request body"))
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationFailed(validation.FormatErrors(err)))
	}

	user, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) || errors.Is(err, apperrors.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Invalid credentials"})
		}
		c.Logger().Errorf("sign-in: %v", err)
		return c.JSON(http.StatusInternalServerError, apperrors.Internal())
	}

	token, err := h.jwtService.Sign(user.ID, user.Email, user.Role)
	if err != nil {
		c.Logger().Errorf("sign token: %v", err)
		return c.JSON(http.StatusInternalServerError, apperrors.Internal())
	}
	h.setTokenCookie(c, token)

	c.Logger().Infof("user signed in: %s", user.Email)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User signed in successfully",
		"user":    user,
	})
}

// SignOut godoc
// @Summary Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /sign-out [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	// Stateless: the issued token stays valid until expiry, the client just
	// stops carrying it.
	h.clearTokenCookie(c)

	c.Logger().Info("user signed out")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User signed out successfully",
	})
}

func (h *AuthHandler) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.TokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
