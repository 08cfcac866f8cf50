// internal/store/sqlite.go
//
// SQLite-backed implementation of the game.Store interface.
// Each game is persisted as one JSON document in the games table,
// keyed by its identifier — the same document-per-game shape the
// service exposes over HTTP, so there is no relational mapping to
// maintain as the model evolves.
//
// Versioning: the version column mirrors GameData.Version and the
// UPDATE is guarded with WHERE version=?, so a stale snapshot loses
// the race instead of silently clobbering a newer write.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/codenames/internal/game"
)

// SQLite persists games as JSON documents in a games table.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an opened database handle. The schema is applied by
// the caller's migrations (see db.go / sql/001_init.sql).
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Get loads and decodes one game document.
func (s *SQLite) Get(ctx context.Context, id string) (*game.GameData, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM games WHERE id=?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	return decode(doc)
}

// Put writes one game document atomically. New games insert at
// version 1; existing games update only if the caller's version still
// matches the row, otherwise game.ErrVersionConflict.
func (s *SQLite) Put(ctx context.Context, g *game.GameData) (*game.GameData, error) {
	c := g.Clone()
	c.UpdatedAt = time.Now().UTC()
	prev := c.Version
	c.Version++

	doc, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode game %s: %w", c.ID, err)
	}

	if prev == 0 {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO games (id, data, updated_at, version) VALUES (?,?,?,?)`,
			c.ID, string(doc), c.UpdatedAt.Format(time.RFC3339), c.Version)
		if err != nil {
			return nil, fmt.Errorf("insert game %s: %w", c.ID, err)
		}
		return c, nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET data=?, updated_at=?, version=? WHERE id=? AND version=?`,
		string(doc), c.UpdatedAt.Format(time.RFC3339), c.Version, c.ID, prev)
	if err != nil {
		return nil, fmt.Errorf("update game %s: %w", c.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, game.ErrVersionConflict
	}
	return c, nil
}

// List loads every stored game, newest first.
func (s *SQLite) List(ctx context.Context) ([]*game.GameData, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM games ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	out := []*game.GameData{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		g, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeleteAll truncates the games table.
func (s *SQLite) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM games`)
	return err
}

func decode(doc string) (*game.GameData, error) {
	var g game.GameData
	if err := json.Unmarshal([]byte(doc), &g); err != nil {
		return nil, fmt.Errorf("decode game document: %w", err)
	}
	return &g, nil
}
