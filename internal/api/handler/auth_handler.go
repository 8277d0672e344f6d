package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shieldagency/backend/internal/api/metrics"
	"github.com/shieldagency/backend/internal/api/middleware"
	"github.com/shieldagency/backend/internal/core/domain"
	"github.com/shieldagency/backend/internal/core/ports"
)

// AuthHandler serves the admin surface under /api/auth.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"omitempty,max=72"`
}

// Login authenticates an admin and returns a JWT token.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Admin credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      429   {object}  errorBody
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		recordLogin(surfaceAdmin, nil, err)
		return err
	}

	session, err := h.authService.AdminLogin(c.Request().Context(), req.Email, req.Password)
	recordLogin(surfaceAdmin, session, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newTokenResponse(session))
}

// Me returns the authenticated admin.
//
// @Summary      Current admin
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  principalResponse
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return domain.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, principalResponse{Success: true, Data: admin})
}

// ChangePassword replaces the authenticated admin's password. Tokens issued
// before the change stay valid until they expire.
//
// @Summary      Change admin password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /api/auth/change-password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		metrics.PasswordChangesTotal.WithLabelValues("bad_request").Inc()
		return err
	}

	err := h.authService.ChangeAdminPassword(c.Request().Context(), admin.ID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		metrics.PasswordChangesTotal.WithLabelValues("changed").Inc()
	case errors.Is(err, domain.ErrIncorrectPassword):
		metrics.PasswordChangesTotal.WithLabelValues("incorrect_current").Inc()
		return err
	case errors.Is(err, domain.ErrValidation):
		metrics.PasswordChangesTotal.WithLabelValues("bad_request").Inc()
		return err
	case errors.Is(err, domain.ErrPrincipalNotFound):
		metrics.PasswordChangesTotal.WithLabelValues("not_found").Inc()
		return err
	default:
		metrics.PasswordChangesTotal.WithLabelValues("error").Inc()
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Password updated successfully"})
}
