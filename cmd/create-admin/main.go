// Command create-admin seeds the admin account from ADMIN_* environment
// variables. Running it again with the same email is a no-op.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/shieldagency/backend/internal/core/domain"
	"github.com/shieldagency/backend/internal/core/ports"
	mongodb "github.com/shieldagency/backend/internal/infrastructure/db/mongo"
	"github.com/shieldagency/backend/internal/pkg/config"
	"github.com/shieldagency/backend/internal/pkg/password"
	"github.com/shieldagency/backend/pkg/logger"
)

const timeout = 30 * time.Second

type hasher interface {
	Hash(plaintext string) (string, error)
}

type seedInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := config.LoadSeed(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "create-admin",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("create admin failed")
	}
}

func run(ctx context.Context, cfg *config.SeedConfig, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	admins := mongodb.NewAdminRepository(db)
	if err := mongodb.EnsureIndexes(ctx, admins); err != nil {
		return err
	}

	created, err := createAdmin(ctx, admins, password.NewHasher(cfg.BcryptCost), cfg.Admin)
	if err != nil {
		return err
	}
	if created == nil {
		log.Info().Str("email", cfg.Admin.Email).Msg("admin already exists")
		return nil
	}
	log.Info().Str("admin_id", created.ID).Str("email", created.Email).Msg("admin created")
	return nil
}

// createAdmin returns nil, nil when an admin with the seed email exists.
func createAdmin(ctx context.Context, admins ports.AdminRepository, h hasher, seed config.AdminSeed) (*domain.Principal, error) {
	in := seedInput{
		Name:     strings.TrimSpace(seed.Name),
		Email:    strings.TrimSpace(seed.Email),
		Password: seed.Password,
	}
	if err := validator.New().Struct(in); err != nil {
		return nil, fmt.Errorf("invalid admin seed: %w", err)
	}

	_, err := admins.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, nil
	case !errors.Is(err, domain.ErrPrincipalNotFound):
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := h.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := admins.Create(ctx, &domain.Principal{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		// Lost a race with a concurrent seed.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return created, nil
}
