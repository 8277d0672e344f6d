package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/shieldagency/backend/internal/core/domain"
)

// Context slots filled by Protect. Exactly one is set per request.
const (
	adminKey = "admin"
	userKey  = "user"
)

// AdminFromContext returns the admin resolved by Protect, if any.
func AdminFromContext(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(adminKey).(*domain.Principal)
	return p, ok && p != nil
}

// UserFromContext returns the user resolved by Protect, if any.
func UserFromContext(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(userKey).(*domain.Principal)
	return p, ok && p != nil
}

// PrincipalFromContext returns whichever principal Protect resolved.
func PrincipalFromContext(c echo.Context) (*domain.Principal, bool) {
	if p, ok := AdminFromContext(c); ok {
		return p, true
	}
	return UserFromContext(c)
}
