// Package store persists decks in SQLite. A deck is stored as its crafting
// lists and re-synthesized against the current catalog when loaded.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/peterkuimelis/lexicarcana/internal/card"
)

var (
	// ErrNotFound is returned when a named deck does not exist.
	ErrNotFound      = errors.New("deck not found")
	ErrNotConfigured = errors.New("storage is not configured")
)

const schema = `
CREATE TABLE IF NOT EXISTS decks (
	name       TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	card_count INTEGER NOT NULL,
	total_cost INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store persists decks in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// DeckSummary describes a stored deck without its cards.
type DeckSummary struct {
	Name      string    `json:"name"`
	Cards     int       `json:"cards"`
	TotalCost int       `json:"total_cost"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Open opens a SQLite deck store at path, creating the schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return ErrNotConfigured
	}
	return nil
}

// SaveDeck inserts or replaces the deck with d's name.
func (s *Store) SaveDeck(ctx context.Context, d *card.Deck) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return fmt.Errorf("deck name is required")
	}
	entry := card.EntryOf(d)
	entry.Name = name
	body, err := yaml.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode deck %q: %w", name, err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO decks (name, body, card_count, total_cost, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   body = excluded.body,
		   card_count = excluded.card_count,
		   total_cost = excluded.total_cost,
		   updated_at = excluded.updated_at`,
		name,
		string(body),
		d.Len(),
		d.TotalCost(),
		s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save deck %q: %w", name, err)
	}
	return nil
}

// LoadEntry returns the stored crafting lists of a deck.
func (s *Store) LoadEntry(ctx context.Context, name string) (card.DeckEntry, error) {
	if err := s.ready(ctx); err != nil {
		return card.DeckEntry{}, err
	}
	var body string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT body FROM decks WHERE name = ?`, strings.TrimSpace(name)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return card.DeckEntry{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err != nil {
		return card.DeckEntry{}, fmt.Errorf("load deck %q: %w", name, err)
	}
	var entry card.DeckEntry
	if err := yaml.Unmarshal([]byte(body), &entry); err != nil {
		return card.DeckEntry{}, fmt.Errorf("decode deck %q: %w", name, err)
	}
	return entry, nil
}

// LoadDeck loads a deck and re-synthesizes its cards.
func (s *Store) LoadDeck(ctx context.Context, name string, synth *card.Synthesizer, costCap int) (*card.Deck, error) {
	entry, err := s.LoadEntry(ctx, name)
	if err != nil {
		return nil, err
	}
	return entry.Build(synth, costCap)
}

// ListDecks returns every stored deck ordered by name.
func (s *Store) ListDecks(ctx context.Context) ([]DeckSummary, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name, card_count, total_cost, updated_at FROM decks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var out []DeckSummary
	for rows.Next() {
		var (
			ds      DeckSummary
			updated int64
		)
		if err := rows.Scan(&ds.Name, &ds.Cards, &ds.TotalCost, &updated); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		ds.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, ds)
	}
	return out, rows.Err()
}

// DeleteDeck removes a deck. Deleting a missing deck returns ErrNotFound.
func (s *Store) DeleteDeck(ctx context.Context, name string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM decks WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete deck %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return nil
}
