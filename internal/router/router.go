package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"userbase/internal/config"
	apperrors "userbase/internal/errors"
	"userbase/internal/handler"
	"userbase/internal/middleware"
	"userbase/internal/model"
	"userbase/internal/validation"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	counter middleware.Counter,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Validator = validation.New()
	e.HTTPErrorHandler = httpErrorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	security := middleware.Security(counter)

	// Public routes
	e.POST("/sign-up", authHandler.SignUp, security)
	e.POST("/sign-in", authHandler.SignIn, security)
	e.POST("/sign-out", authHandler.SignOut, security)

	// Authenticated routes. Security runs after Authenticate so the rate tier
	// matches the caller's role.
	users := e.Group("/users", middleware.Authenticate(cfg.JWTSecret), security)
	users.GET("", userHandler.ListUsers, middleware.RequireRoles(model.RoleAdmin))
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser, middleware.RequireRoles(model.RoleAdmin))
}

// httpErrorHandler is the fallback for errors no handler mapped itself:
// echo's own routing errors keep their status, anything else becomes a
// generic 500 with the detail logged, never returned.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if he, ok := err.(*echo.HTTPError); ok {
		body := apperrors.ErrorResponse{Error: http.StatusText(he.Code)}
		if msg, ok := he.Message.(string); ok && msg != body.Error {
			body.Message = msg
		}
		_ = c.JSON(he.Code, body)
		return
	}

	c.Logger().Error(err)
	_ = c.JSON(http.StatusInternalServerError, apperrors.Internal())
}
