package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"github.com/vgtennis/court-scheduler/internal/poll"
	"github.com/vgtennis/court-scheduler/internal/schedule"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	if value, ok := os.LookupEnv("TIMEZONE"); ok {
		config["TIMEZONE"] = value
	} else {
		config["TIMEZONE"] = "Asia/Manila"
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	seedNames := []string{
		"Roel", "Marvin", "Jon", "Carlo", "Dindo", "Allan",
		"Erwin", "Paolo", "Migs", "Benjie", "Ramil", "Toto",
	}

	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	for i, name := range seedNames {
		_, err := tx.Exec(
			"INSERT OR IGNORE INTO players (id, name, seed) VALUES (?, ?, ?)",
			uuid.NewString(), name, i+1,
		)
		if err != nil {
			tx.Rollback()
			log.Fatalf("Failed to insert player %s: %s", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}
	log.Info("Ensured roster players exist.", "count", len(seedNames))

	loc, err := time.LoadLocation(cfg["TIMEZONE"])
	if err != nil {
		log.Warn("Unknown timezone, falling back to UTC", "timezone", cfg["TIMEZONE"])
		loc = time.UTC
	}

	window := schedule.New(schedule.StrategyWeek, clockwork.NewRealClock(), loc)
	polls := poll.New(db, window)

	created, err := polls.Create("Weekly Schedule", "Vote for the dates you can play this week.")
	if err != nil {
		log.Fatalf("Failed to create default poll: %s", err)
	}
	log.Info("Created default poll.", "id", created.ID, "options", len(created.Options))

	duration := time.Since(startTime)
	log.Info("Seeding complete.", "duration", duration)
}
