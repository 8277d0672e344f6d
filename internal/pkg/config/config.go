package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=5001"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	JWTExpire  time.Duration `env:"JWT_EXPIRE, default=720h"`
	JWTIssuer  string        `env:"JWT_ISSUER, default=shieldagency"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`

	// LoginMaxFailures is the number of failed logins per email tolerated
	// within LoginFailureWindow. Zero disables the throttle.
	LoginMaxFailures   int           `env:"LOGIN_MAX_FAILURES,   default=10"`
	LoginFailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW, default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=shieldagency"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS,   default=5"`
	Burst int     `env:"RATE_LIMIT_BURST, default=10"`
}

// SeedConfig configures cmd/create-admin. It does not need JWT settings.
type SeedConfig struct {
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	BcryptCost int    `env:"BCRYPT_COST, default=10"`

	Mongo MongoConfig
	Admin AdminSeed
}

type AdminSeed struct {
	Name     string `env:"ADMIN_NAME,     default=Admin"`
	Email    string `env:"ADMIN_EMAIL,    default=admin@shield.com"`
	Password string `env:"ADMIN_PASSWORD, required"`
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTExpire <= 0 {
		return errors.New("JWT_EXPIRE must be positive")
	}
	if c.Auth.LoginMaxFailures < 0 {
		return errors.New("LOGIN_MAX_FAILURES must not be negative")
	}
	if c.Auth.LoginMaxFailures > 0 && c.Auth.LoginFailureWindow <= 0 {
		return errors.New("LOGIN_FAILURE_WINDOW must be positive when the throttle is enabled")
	}
	return nil
}

// LoadSeed reads the admin bootstrap configuration.
func LoadSeed(ctx context.Context) (*SeedConfig, error) {
	return loadSeed(ctx, envconfig.OsLookuper())
}

func loadSeed(ctx context.Context, lookuper envconfig.Lookuper) (*SeedConfig, error) {
	var cfg SeedConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for entry points that cannot continue without config.
func MustLoad() *Config {
	cfg, err := Load(context.Background())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
