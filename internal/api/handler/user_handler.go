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

// UserHandler serves the public user surface under /api/users.
type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name"     example:"Alice"`
	Email    string `json:"email"    example:"a@x.com" validate:"omitempty,email,max=254"`
	Password string `json:"password" example:"secret1" validate:"omitempty,max=72"`
}

// Register creates a user account and logs it in.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorBody
// @Router       /api/users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("bad_request").Inc()
		return err
	}

	session, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		case errors.Is(err, domain.ErrValidation):
			metrics.RegistrationsTotal.WithLabelValues("bad_request").Inc()
		default:
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, newTokenResponse(session))
}

// Login authenticates a user. Admin credentials are accepted as a fallback,
// in which case the returned role is "admin".
//
// @Summary      User login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "User or admin credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      429   {object}  errorBody
// @Router       /api/users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		recordLogin(surfaceUser, nil, err)
		return err
	}

	session, err := h.authService.UserLogin(c.Request().Context(), req.Email, req.Password)
	recordLogin(surfaceUser, session, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newTokenResponse(session))
}

// Me returns the authenticated principal, user or admin.
//
// @Summary      Current principal
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  principalResponse
// @Failure      401  {object}  errorBody
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	p, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return domain.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, principalResponse{Success: true, Data: p})
}
