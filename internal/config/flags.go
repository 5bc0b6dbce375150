package config

import (
	"flag"
	"io"
)

// parseFlags overlays the handful of settings that are commonly changed
// per invocation.
func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("notes", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&c.Port, "port", c.Port, "HTTP port")
	fs.StringVar(&c.Env, "env", c.Env, "environment (development|production)")
	fs.StringVar(&c.Storage, "storage", c.Storage, "note storage (mongo|memory)")
	fs.StringVar(&c.MongoURI, "mongo-uri", c.MongoURI, "MongoDB connection string")
	fs.StringVar(&c.MongoDB, "mongo-db", c.MongoDB, "MongoDB database name")
	fs.StringVar(&c.RateLimitStore, "rate-limit-store", c.RateLimitStore, "login limiter store (memory|postgres)")
	fs.StringVar(&c.PostgresDSN, "postgres-dsn", c.PostgresDSN, "PostgreSQL DSN for the shared limiter store")
	fs.DurationVar(&c.RequestTimeout, "request-timeout", c.RequestTimeout, "per-request timeout")

	return fs.Parse(args)
}
