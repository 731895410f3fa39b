// internal/database/db.go
package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"settlersync/internal/recorder"
)

// DB is the global connection pool, initialized once at startup.
var DB *pgxpool.Pool

// ConnectDB initializes the global pool from POSTGRES_USER, POSTGRES_PASSWORD,
// PG_HOST, PG_PORT and PG_DATABASE. Fatal on failure; the historian cannot
// run without its store.
func ConnectDB() {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("PG_HOST"),
		os.Getenv("PG_PORT"),
		os.Getenv("PG_DATABASE"),
	)

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		log.Fatalf("unable to parse pgx config: %v", err)
	}

	DB, err = pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatalf("unable to create pgx pool: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := DB.Ping(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}

	log.Printf("Connected to database at %s:%s", os.Getenv("PG_HOST"), os.Getenv("PG_PORT"))
}

// EnsureSchema creates the game_events table if it does not exist.
func EnsureSchema(ctx context.Context) error {
	_, err := DB.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS game_events (
			id BIGSERIAL PRIMARY KEY,
			session_id UUID NOT NULL,
			game_id INT NOT NULL,
			player_id INT NOT NULL,
			direction TEXT NOT NULL,
			kind TEXT NOT NULL,
			payload JSONB,
			recorded_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure game_events schema: %w", err)
	}
	return nil
}

// InsertGameEvents persists a batch of recorded events in one round trip.
func InsertGameEvents(ctx context.Context, batch []recorder.GameEventRecord) error {
	if len(batch) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, rec := range batch {
		b.Queue(`
			INSERT INTO game_events (session_id, game_id, player_id, direction, kind, payload, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.SessionID, rec.GameID, rec.PlayerID, rec.Direction, rec.Kind, rec.Payload,
			time.UnixMilli(rec.Timestamp),
		)
	}

	results := DB.SendBatch(ctx, b)
	defer results.Close()
	for range batch {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert game_events batch: %w", err)
		}
	}
	return nil
}
