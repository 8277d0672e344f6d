package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shieldagency/backend/internal/api/metrics"
	"github.com/shieldagency/backend/internal/core/domain"
)

// Login surfaces, used as metric labels.
const (
	surfaceAdmin = "admin"
	surfaceUser  = "user"
)

type loginRequest struct {
	Email    string `json:"email"    example:"admin@shield.com"`
	Password string `json:"password" example:"admin123" validate:"omitempty,max=72"`
}

// principalSummary is the "data" object returned with every token.
type principalSummary struct {
	ID    string      `json:"id"    example:"665f1c2e8b3a4d0012ab34cd"`
	Name  string      `json:"name"  example:"Alice"`
	Email string      `json:"email" example:"a@x.com"`
	Role  domain.Role `json:"role"  swaggertype:"string" enums:"admin,user"`
}

type tokenResponse struct {
	Success bool             `json:"success" example:"true"`
	Token   string           `json:"token"`
	Data    principalSummary `json:"data"`
}

type principalResponse struct {
	Success bool              `json:"success" example:"true"`
	Data    *domain.Principal `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message"`
}

// errorBody documents the envelope rendered by the API error handler.
type errorBody struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Invalid credentials"`
}

func newTokenResponse(s *domain.Session) tokenResponse {
	return tokenResponse{
		Success: true,
		Token:   s.Token,
		Data: principalSummary{
			ID:    s.Principal.ID,
			Name:  s.Principal.Name,
			Email: s.Principal.Email,
			Role:  s.Principal.Role,
		},
	}
}

// bind decodes the request body and runs struct validation.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}
	return c.Validate(req)
}

func recordLogin(surface string, session *domain.Session, err error) {
	if err == nil {
		metrics.LoginAttemptsTotal.WithLabelValues(surface, "success", session.Principal.Role.String()).Inc()
		return
	}
	metrics.LoginAttemptsTotal.WithLabelValues(surface, failureReason(err), "").Inc()
}

func failureReason(err error) string {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	case errors.Is(err, domain.ErrValidation), errors.As(err, &he):
		return "bad_request"
	default:
		return "error"
	}
}
