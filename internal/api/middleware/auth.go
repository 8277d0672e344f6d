package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shieldagency/backend/internal/api/metrics"
	"github.com/shieldagency/backend/internal/core/domain"
)

// Resolver turns a raw bearer token into the principal it names.
type Resolver interface {
	Resolve(ctx context.Context, rawToken string) (*domain.Principal, error)
}

// Protect is the mixed-role guard: any valid admin or user token passes.
// The principal lands in the admin or user slot according to its role.
func Protect(resolver Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenChecksTotal.WithLabelValues("missing").Inc()
				return domain.ErrUnauthenticated
			}

			principal, err := resolver.Resolve(c.Request().Context(), raw)
			if err != nil || principal == nil {
				metrics.TokenChecksTotal.WithLabelValues("invalid").Inc()
				return domain.ErrUnauthenticated
			}

			switch principal.Role {
			case domain.RoleAdmin:
				c.Set(adminKey, principal)
			case domain.RoleUser:
				c.Set(userKey, principal)
			default:
				metrics.TokenChecksTotal.WithLabelValues("invalid").Inc()
				return domain.ErrUnauthenticated
			}

			metrics.TokenChecksTotal.WithLabelValues("ok").Inc()
			return next(c)
		}
	}
}

// ProtectAdmin is Protect followed by RequireAdmin.
func ProtectAdmin(resolver Resolver) echo.MiddlewareFunc {
	protect := Protect(resolver)
	requireAdmin := RequireAdmin()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return protect(requireAdmin(next))
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <t>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}
