package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/shieldagency/backend/docs"
	"github.com/shieldagency/backend/internal/api/handler"
	"github.com/shieldagency/backend/internal/api/middleware"
	"github.com/shieldagency/backend/internal/core/ports"
)

const (
	bodyLimit          = "1M"
	rateLimiterExpires = 3 * time.Minute
	metricsNamespace   = "shieldagency"
)

// RateLimit bounds requests per client IP on the public auth routes.
// A non-positive RPS disables the limiter.
type RateLimit struct {
	RPS   float64
	Burst int
}

// Dependencies is everything the router needs, built once in main.
type Dependencies struct {
	AuthService ports.AuthService
	// Checks feed the readiness probe, keyed by dependency name.
	Checks    map[string]handler.Check
	RateLimit RateLimit
	Logger    zerolog.Logger
	// Registerer receives the HTTP request metrics and Gatherer serves
	// /metrics. Both default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.AuthService)
	protect := middleware.Protect(deps.AuthService)
	protectAdmin := middleware.ProtectAdmin(deps.AuthService)
	limit := publicRateLimiter(deps.RateLimit)

	// --- Admin surface ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login, limit)
	auth.GET("/me", authHandler.Me, protectAdmin)
	auth.PUT("/change-password", authHandler.ChangePassword, protectAdmin)

	// --- User surface ---
	users := e.Group("/api/users")
	users.POST("/register", userHandler.Register, limit)
	users.POST("/login", userHandler.Login, limit)
	users.GET("/me", userHandler.Me, protect)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Checks).Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func publicRateLimiter(cfg RateLimit) echo.MiddlewareFunc {
	if cfg.RPS <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RPS),
			Burst:     burst,
			ExpiresIn: rateLimiterExpires,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, slow down")
		},
	})
}
