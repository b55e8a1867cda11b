package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "userbase/internal/errors"
	"userbase/internal/model"
)

const (
	rateWindow = time.Minute
	guestRole  = "guest"
)

// Requests allowed per window, by role tier.
var roleLimits = map[string]int64{
	model.RoleAdmin: 20,
	model.RoleUser:  10,
	guestRole:       5,
}

var botMarkers = []string{"bot", "crawler", "spider", "scrapy", "headlesschrome", "python-requests"}

// Counter is the per-key request counter backing the rate gate.
// Implementations fail open: (0, nil) means the gate should allow.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Security blocks obvious automated clients and rate-limits by role and client IP.
// On protected routes it must run after Authenticate so the role tier is known;
// everywhere else requests count against the guest tier.
func Security(counter Counter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ua := strings.ToLower(c.Request().UserAgent())
			for _, marker := range botMarkers {
				if strings.Contains(ua, marker) {
					c.Logger().Warnf("bot request blocked: ip=%s path=%s agent=%q", c.RealIP(), c.Path(), c.Request().UserAgent())
					return c.JSON(http.StatusForbidden, apperrors.Forbidden("Automated request are not allowed."))
				}
			}

			role := guestRole
			if claims, ok := ClaimsFrom(c); ok {
				role = claims.Role
			}
			limit, ok := roleLimits[role]
			if !ok {
				limit = roleLimits[guestRole]
			}

			if counter != nil {
				key := fmt.Sprintf("ratelimit:%s:%s", role, c.RealIP())
				count, err := counter.Incr(c.Request().Context(), key, rateWindow)
				if err == nil && count > limit {
					c.Logger().Warnf("rate limit exceeded: ip=%s path=%s role=%s", c.RealIP(), c.Path(), role)
					return c.JSON(http.StatusTooManyRequests, apperrors.Forbidden("You have exceeded your request limit. Please try again later."))
				}
			}

			return next(c)
		}
	}
}
