// Package jsonfile stores season databases as tab indented JSON files laid out as
// {dir}/{series}/{year}.json.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bcdxn/f1timetable/internal/domain"
)

type Store struct {
	dir string
}

func New(dir string) *Store { return &Store{dir: dir} }

func (s *Store) path(series string, year int) string {
	return filepath.Join(s.dir, series, strconv.Itoa(year)+".json")
}

// Load reads the season of a series. A missing file is reported as domain.ErrNoDatabase.
func (s *Store) Load(_ context.Context, series string, year int) (*domain.SeasonDatabase, error) {
	p := s.path(series, year)
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoDatabase, p)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	var db domain.SeasonDatabase
	if err := json.Unmarshal(b, &db); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	return &db, nil
}

// Save rewrites the whole season file. The file is replaced atomically.
func (s *Store) Save(_ context.Context, series string, year int, db *domain.SeasonDatabase) error {
	b, err := Encode(db)
	if err != nil {
		return fmt.Errorf("encode %s/%d: %w", series, year, err)
	}
	p := s.path(series, year)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), filepath.Base(p)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("rename to %s: %w", p, err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// Encode renders a season the way it is stored on disk: tab indented, HTML characters left
// unescaped, trailing newline.
func Encode(db *domain.SeasonDatabase) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	if err := enc.Encode(db); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
