package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shieldagency/backend/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Success: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, rate limiter, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, "User with this email already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Not authorized to access this route"
	case errors.Is(err, domain.ErrAdminRequired):
		return http.StatusForbidden, "Admin access required"
	case errors.Is(err, domain.ErrIncorrectPassword):
		return http.StatusUnauthorized, "Current password is incorrect"
	case errors.Is(err, domain.ErrPrincipalNotFound):
		return http.StatusNotFound, "Admin not found"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "Too many failed login attempts, try again later"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Server Error"
}
