// Package postgres stores season databases as JSON documents in PostgreSQL, one row per series
// and year.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bcdxn/f1timetable/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The document column is json rather than jsonb so that key order survives the round trip.
const migration = `
CREATE TABLE IF NOT EXISTS season_databases (
	series     text        NOT NULL,
	year       integer     NOT NULL,
	document   json        NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (series, year)
)`

const (
	selectSeason = `SELECT document::text FROM season_databases WHERE series = $1 AND year = $2`
	upsertSeason = `
INSERT INTO season_databases (series, year, document, updated_at)
VALUES ($1, $2, $3::json, now())
ON CONFLICT (series, year) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`
)

type DB struct {
	Pool *pgxpool.Pool
}

func Connect(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	return nil
}

func (db *DB) Ready(ctx context.Context) error {
	var one int
	return db.Pool.QueryRow(ctx, "select 1").Scan(&one)
}

// Migrate creates the season table if it does not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, migration); err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

// Load reads the season of a series. A missing row is reported as domain.ErrNoDatabase.
func (db *DB) Load(ctx context.Context, series string, year int) (*domain.SeasonDatabase, error) {
	var doc string
	err := db.Pool.QueryRow(ctx, selectSeason, series, year).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%d", domain.ErrNoDatabase, series, year)
	}
	if err != nil {
		return nil, fmt.Errorf("select %s/%d: %w", series, year, err)
	}
	var season domain.SeasonDatabase
	if err := json.Unmarshal([]byte(doc), &season); err != nil {
		return nil, fmt.Errorf("decode %s/%d: %w", series, year, err)
	}
	return &season, nil
}

// Save upserts the whole season document.
func (db *DB) Save(ctx context.Context, series string, year int, season *domain.SeasonDatabase) error {
	b, err := json.Marshal(season)
	if err != nil {
		return fmt.Errorf("encode %s/%d: %w", series, year, err)
	}
	if _, err := db.Pool.Exec(ctx, upsertSeason, series, year, string(b)); err != nil {
		return fmt.Errorf("upsert %s/%d: %w", series, year, err)
	}
	return nil
}
