package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/shieldagency/backend/internal/api/metrics"
	"github.com/shieldagency/backend/internal/core/domain"
)

// RequireAdmin must run after Protect. A resolved user gets 403, a request
// that never went through Protect gets 401.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := AdminFromContext(c); ok {
				return next(c)
			}
			if _, ok := UserFromContext(c); ok {
				metrics.TokenChecksTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrAdminRequired
			}
			return domain.ErrUnauthenticated
		}
	}
}
