package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shieldagency/backend/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "Not authorized to access this route"},
		{domain.ErrAdminRequired, http.StatusForbidden, "Admin access required"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{fmt.Errorf("register: %w", domain.ErrEmailTaken), http.StatusBadRequest, "User with this email already exists"},
		{domain.ErrIncorrectPassword, http.StatusUnauthorized, "Current password is incorrect"},
		{fmt.Errorf("change password: %w", domain.ErrPrincipalNotFound), http.StatusNotFound, "Admin not found"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "Too many failed login attempts, try again later"},
		{domain.Invalid("Please provide an email and password"), http.StatusBadRequest, "Please provide an email and password"},
		{echo.NewHTTPError(http.StatusBadRequest, "email must be a valid email"), http.StatusBadRequest, "email must be a valid email"},
	}

	for _, tc := range cases {
		code, body := renderError(t, tc.err)
		if code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
		if body.Success {
			t.Fatalf("%v: success must be false", tc.err)
		}
		if body.Message != tc.msg {
			t.Fatalf("%v: expected message %q, got %q", tc.err, tc.msg, body.Message)
		}
	}
}

func TestHTTPErrorHandler_UnknownErrorHidesDetail(t *testing.T) {
	code, body := renderError(t, errors.New("mongo: connection refused at 10.0.0.3"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Message != "Server Error" {
		t.Fatalf("internal detail leaked: %q", body.Message)
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrUnauthenticated, c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was overwritten: %d %q", rec.Code, rec.Body.String())
	}
}
