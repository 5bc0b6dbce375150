package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	mongorepo "github.com/vncsmyrnk/notes/internal/adapters/repository/mongo"
	"github.com/vncsmyrnk/notes/internal/core/services"
	"github.com/vncsmyrnk/notes/internal/logging"
)

// notestats prints the collection statistics served by
// GET /api/notes/stats/overview as a single JSON document.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var mongoURI, mongoDB string
	flag.StringVar(&mongoURI, "mongo-uri", os.Getenv("MONGODB_URI"), "MongoDB connection string")
	flag.StringVar(&mongoDB, "mongo-db", os.Getenv("MONGODB_DB"), "MongoDB database name")
	flag.Parse()

	if mongoURI == "" || mongoDB == "" {
		log.Fatal("MONGODB_URI and MONGODB_DB are required")
	}

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := mongorepo.Connect(ctx, mongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	noteService := services.NewNoteService(
		mongorepo.NewNoteRepository(client.Database(mongoDB)),
		logging.New(os.Stderr, false),
	)

	stats, err := noteService.Stats(ctx)
	if err != nil {
		log.Fatalf("Error computing note stats: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats); err != nil {
		log.Fatal(err)
	}
}
