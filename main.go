package main

import (
	"context"
	"log"

	"pimprep/adapters/postgres"
	"pimprep/internal/config"
	"pimprep/ports"
	"pimprep/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase connects to PostgreSQL and ensures the schema exists.
// An empty DATABASE_URL disables persistence entirely.
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := postgres.Migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var repo ports.AnalysisRepository
	if cfg.Database.URL != "" {
		db, err := initDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		repo = postgres.NewAnalysisRepository(db)
		log.Println("Persistence enabled; analyses will be stored in PostgreSQL")
	} else {
		log.Println("DATABASE_URL not set; running without persistence")
	}

	app := ui.NewApp(cfg, repo)
	log.Printf("Starting pimprep server on port %s", cfg.Server.Port)
	log.Fatal(app.Start())
}
