package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type lookupFunc func(key string) (string, bool)

// envLookup prefers the process environment over values read from
// envFile. A missing envFile is not an error.
func envLookup(envFile string) (lookupFunc, error) {
	fileValues := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileValues = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	}, nil
}

func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("PORT", &c.Port)
	str("APP_ENV", &c.Env)
	str("STORAGE", &c.Storage)
	str("MONGODB_URI", &c.MongoURI)
	str("MONGODB_DB", &c.MongoDB)
	dur("REQUEST_TIMEOUT", &c.RequestTimeout)
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.CORSOrigins = splitList(v)
	}

	str("JWT_SECRET", &c.JWTSecret)
	dur("ACCESS_TOKEN_TTL", &c.AccessTokenTTL)
	dur("REFRESH_TOKEN_TTL", &c.RefreshTokenTTL)
	num("BCRYPT_COST", &c.BcryptCost)

	num("LOGIN_RATE_LIMIT", &c.LoginRateLimit)
	dur("LOGIN_RATE_WINDOW", &c.LoginRateWindow)
	str("RATE_LIMIT_STORE", &c.RateLimitStore)
	str("POSTGRES_DSN", &c.PostgresDSN)

	num("LOCK_MAX_ATTEMPTS", &c.LockMaxAttempts)
	dur("LOCK_DURATION", &c.LockDuration)

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
