package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shieldagency/backend/internal/core/domain"
)

func TestRequireAdmin_Allows(t *testing.T) {
	c, rec := newContext("")
	c.Set(adminKey, &domain.Principal{ID: "a1", Role: domain.RoleAdmin})

	called := false
	handler := RequireAdmin()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAdmin_ForbidsUser(t *testing.T) {
	c, _ := newContext("")
	c.Set(userKey, &domain.Principal{ID: "u1", Role: domain.RoleUser})

	err := RequireAdmin()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}
}

func TestRequireAdmin_WithoutProtect(t *testing.T) {
	c, _ := newContext("")

	err := RequireAdmin()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
