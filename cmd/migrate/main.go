package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/fixora/accounts/infrastructure/adapter/postgres"
)

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	flag.Parse()

	// .env is optional; real environment variables win
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	direction := strings.ToLower(*mode)
	if err := postgres.Migrate(db, direction); err != nil {
		log.Fatalf("migration %s failed: %v", direction, err)
	}
	log.Printf("Migration %s completed successfully", direction)
}
