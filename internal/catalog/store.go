// Package catalog supplies racing marks to the game: a SQLite-backed store
// per chart, a registry of those stores, a GPX file source and a memoising
// wrapper that loads a source once per game.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/solentmarks/markquiz/internal/markquiz"
)

var (
	ErrNotFound = errors.New("not found")
	ErrNoData   = errors.New("no marks available")
)

// Source supplies the full list of marks for one chart.
type Source interface {
	Marks(ctx context.Context) ([]markquiz.Mark, error)
}

// Store keeps one chart's marks in a SQLite database.
type Store struct {
	db *sql.DB
}

func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS marks (
		id                      TEXT PRIMARY KEY,
		position                INTEGER NOT NULL,
		name                    TEXT NOT NULL,
		lat                     REAL NOT NULL,
		lon                     REAL NOT NULL,
		symbol                  TEXT NOT NULL,
		description             TEXT NOT NULL,
		sponsor                 TEXT NOT NULL DEFAULT '',
		sponsor_hint_suppressed INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		return nil, fmt.Errorf("creating marks table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceMarks swaps the whole catalog in one transaction. Marks keep the
// order they are given in.
func (s *Store) ReplaceMarks(ctx context.Context, marks []markquiz.Mark) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM marks`); err != nil {
		return fmt.Errorf("clearing marks: %w", err)
	}

	for i, m := range marks {
		suppressed := 0
		if m.SponsorHintSuppressed {
			suppressed = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO marks (id, position, name, lat, lon, symbol, description, sponsor, sponsor_hint_suppressed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, m.ID, i, m.Name, m.Lat, m.Lon, string(m.Symbol), m.Description, m.Sponsor, suppressed)
		if err != nil {
			return fmt.Errorf("inserting mark %q: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// Marks returns every mark in catalog order.
func (s *Store) Marks(ctx context.Context) ([]markquiz.Mark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, lat, lon, symbol, description, sponsor, sponsor_hint_suppressed
		FROM marks
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying marks: %w", err)
	}
	defer rows.Close()

	var marks []markquiz.Mark
	for rows.Next() {
		m, err := scanMark(rows)
		if err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}

func (s *Store) Mark(ctx context.Context, id string) (markquiz.Mark, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, lat, lon, symbol, description, sponsor, sponsor_hint_suppressed
		FROM marks
		WHERE id = ?
	`, id)
	m, err := scanMark(row)
	if errors.Is(err, sql.ErrNoRows) {
		return markquiz.Mark{}, ErrNotFound
	}
	return m, err
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM marks`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMark(sc scanner) (markquiz.Mark, error) {
	var (
		m          markquiz.Mark
		symbol     string
		suppressed int64
	)
	err := sc.Scan(&m.ID, &m.Name, &m.Lat, &m.Lon, &symbol, &m.Description, &m.Sponsor, &suppressed)
	if err != nil {
		return markquiz.Mark{}, err
	}
	m.Symbol = markquiz.Symbol(symbol)
	m.SponsorHintSuppressed = suppressed != 0
	return m, nil
}
