// Package storage opens the backend holding each series' season databases.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/bcdxn/f1timetable/internal/domain"
	"github.com/bcdxn/f1timetable/internal/storage/jsonfile"
	"github.com/bcdxn/f1timetable/internal/storage/postgres"
	"github.com/xo/dburl"
)

// Store loads and persists whole season databases.
type Store interface {
	Load(ctx context.Context, series string, year int) (*domain.SeasonDatabase, error)
	Save(ctx context.Context, series string, year int, db *domain.SeasonDatabase) error
	Close() error
}

// Backend names.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Resolve returns the backend a storage URL selects and the location to hand it: a directory for
// the file backend or a DSN for postgres. Anything without a URL scheme is a directory.
func Resolve(raw string) (backend, location string, err error) {
	if !strings.Contains(raw, "://") {
		return BackendFile, raw, nil
	}
	if dir, ok := strings.CutPrefix(raw, "file://"); ok {
		return BackendFile, dir, nil
	}
	u, err := dburl.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("storage url: %w", err)
	}
	if u.Driver != "postgres" && u.Driver != "pgx" {
		return "", "", fmt.Errorf("storage url: unsupported driver %q", u.Driver)
	}
	return BackendPostgres, u.DSN, nil
}

// Open opens the store a storage URL points at, creating the postgres schema when needed.
func Open(ctx context.Context, raw string) (Store, error) {
	backend, location, err := Resolve(raw)
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendPostgres:
		db, err := postgres.Connect(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if err := db.Ready(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("db ping: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration: %w", err)
		}
		return db, nil
	default:
		return jsonfile.New(location), nil
	}
}
