package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"userbase/internal/auth"
	apperrors "userbase/internal/errors"
)

const claimsContextKey = "user"

// Authenticate gates a route group on a valid session token carried in the
// "token" cookie. On success the typed claims are available via ClaimsFrom.
func Authenticate(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey,
		SigningKey:  []byte(secret),
		TokenLookup: "cookie:token",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if _, cerr := c.Cookie("token"); cerr != nil {
				return c.JSON(http.StatusUnauthorized, apperrors.Unauthorized("Authentication token is required"))
			}
			return c.JSON(http.StatusUnauthorized, apperrors.Unauthorized("Invalid or expired token"))
		},
	})
}

// ClaimsFrom returns the verified session claims attached by Authenticate.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	token, ok := c.Get(claimsContextKey).(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(*auth.Claims)
	return claims, ok
}

// RequireRoles rejects authenticated requests whose role is not in the set.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, apperrors.Unauthorized("Authentication is required"))
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, apperrors.Forbidden("You do not have permission to access this resource"))
		}
	}
}
