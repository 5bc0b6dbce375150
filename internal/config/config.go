// Package config assembles the server configuration from defaults, an
// optional .env file, the environment and command-line flags, in that
// order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StorageMongo  = "mongo"
	StorageMemory = "memory"

	LimiterMemory   = "memory"
	LimiterPostgres = "postgres"

	defaultJWTSecret = "dev-secret-change-me"
)

type Config struct {
	Port           string
	Env            string
	Storage        string
	MongoURI       string
	MongoDB        string
	RequestTimeout time.Duration
	CORSOrigins    []string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int

	LoginRateLimit  int
	LoginRateWindow time.Duration
	RateLimitStore  string
	PostgresDSN     string

	LockMaxAttempts int
	LockDuration    time.Duration
}

// LoadDefaults sets development defaults. JWTSecret must be overridden in
// production; Validate enforces it.
func (c *Config) LoadDefaults() {
	c.Port = "8080"
	c.Env = EnvDevelopment
	c.Storage = StorageMongo
	c.MongoURI = "mongodb://localhost:27017"
	c.MongoDB = "notes"
	c.RequestTimeout = 30 * time.Second
	c.CORSOrigins = []string{"http://localhost:3000"}

	c.JWTSecret = defaultJWTSecret
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 7 * 24 * time.Hour
	c.BcryptCost = 12

	c.LoginRateLimit = 5
	c.LoginRateWindow = 15 * time.Minute
	c.RateLimitStore = LimiterMemory

	lock := domain.DefaultLockPolicy()
	c.LockMaxAttempts = lock.MaxAttempts
	c.LockDuration = lock.LockDuration
}

// Load builds the configuration for a process started with args (without
// the program name).
func Load(envFile string, args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	lookup, err := envLookup(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Storage != StorageMongo && c.Storage != StorageMemory {
		errs = append(errs, fmt.Errorf("STORAGE must be %q or %q, got %q", StorageMongo, StorageMemory, c.Storage))
	}
	if c.RateLimitStore != LimiterMemory && c.RateLimitStore != LimiterPostgres {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_STORE must be %q or %q, got %q", LimiterMemory, LimiterPostgres, c.RateLimitStore))
	}
	if c.RateLimitStore == LimiterPostgres && c.PostgresDSN == "" {
		errs = append(errs, errors.New("POSTGRES_DSN is required when RATE_LIMIT_STORE=postgres"))
	}
	if c.JWTSecret == "" || (c.IsProduction() && c.JWTSecret == defaultJWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	if c.LoginRateLimit < 1 || c.LockMaxAttempts < 1 {
		errs = append(errs, errors.New("LOGIN_RATE_LIMIT and LOCK_MAX_ATTEMPTS must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) LockPolicy() domain.LockPolicy {
	return domain.LockPolicy{MaxAttempts: c.LockMaxAttempts, LockDuration: c.LockDuration}
}

func (c *Config) LoginLimitPolicy() ports.LimitPolicy {
	return ports.LimitPolicy{MaxAttempts: c.LoginRateLimit, Window: c.LoginRateWindow}
}
