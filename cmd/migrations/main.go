package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	mongorepo "github.com/vncsmyrnk/notes/internal/adapters/repository/mongo"
	"github.com/vncsmyrnk/notes/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/notes/internal/adapters/repository/postgres/migrations"
)

// Usage:
//
//	migrations [flags] <target> [goose command] [args]
//
// target is "postgres" (goose: up, down, status, version, redo...) or
// "mongo" (creates the collection indexes).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var postgresDSN, mongoURI, mongoDB string
	flag.StringVar(&postgresDSN, "postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	flag.StringVar(&mongoURI, "mongo-uri", envOr("MONGODB_URI", "mongodb://localhost:27017"), "MongoDB connection string")
	flag.StringVar(&mongoDB, "mongo-db", envOr("MONGODB_DB", "notes"), "MongoDB database name")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("a target (postgres or mongo) is required.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var err error
	switch target := flag.Arg(0); target {
	case "postgres":
		command := "up"
		if flag.NArg() > 1 {
			command = flag.Arg(1)
		}
		err = migratePostgres(ctx, postgresDSN, command, flag.Args()[min(2, flag.NArg()):]...)
	case "mongo":
		err = indexMongo(ctx, mongoURI, mongoDB)
	default:
		err = fmt.Errorf("unknown target %q", target)
	}
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Migration executed successfully.")
}

func migratePostgres(ctx context.Context, dsn, command string, args ...string) error {
	if dsn == "" {
		return fmt.Errorf("POSTGRES_DSN is required")
	}

	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.RunContext(ctx, command, db, ".", args...)
}

func indexMongo(ctx context.Context, uri, database string) error {
	client, err := mongorepo.Connect(ctx, uri)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	return mongorepo.EnsureIndexes(ctx, client.Database(database))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
