// @title                       Shield Agency API
// @version                     1.0
// @description                 Authentication and authorization for admins and users of the Shield Agency website.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shieldagency/backend/internal/api"
	"github.com/shieldagency/backend/internal/api/handler"
	"github.com/shieldagency/backend/internal/core/service"
	mongodb "github.com/shieldagency/backend/internal/infrastructure/db/mongo"
	redisdb "github.com/shieldagency/backend/internal/infrastructure/db/redis"
	"github.com/shieldagency/backend/internal/pkg/config"
	"github.com/shieldagency/backend/internal/pkg/password"
	"github.com/shieldagency/backend/internal/pkg/token"
	"github.com/shieldagency/backend/pkg/logger"
)

const (
	serviceName     = "shieldagency-api"
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg := config.MustLoad()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	admins := mongodb.NewAdminRepository(db)
	users := mongodb.NewUserRepository(db)
	if err := mongodb.EnsureIndexes(ctx, admins, users); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Auth ---
	tokens, err := token.NewManager(token.Config{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.JWTExpire,
		Issuer: cfg.Auth.JWTIssuer,
	})
	if err != nil {
		return err
	}
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginFailureWindow)
	authService := service.NewAuthService(admins, users, tokens, hasher, throttle, log)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		RateLimit: api.RateLimit{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		},
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
