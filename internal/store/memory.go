// internal/store/memory.go
//
// In-memory implementation of the game.Store interface.
// This is a lightweight persistence layer used for ephemeral sessions,
// primarily in development/testing, or when durability is not required.
//
// Characteristics:
//   - Stores game.GameData snapshots keyed by id in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Deep-copies on the way in and out so callers never alias stored state.
//   - Compare-and-swap on version: a stale snapshot cannot overwrite a newer one.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/codenames/internal/game"
)

// Memory is a map-based game.Store implementation.
type Memory struct {
	mu    sync.RWMutex              // guards games map
	games map[string]*game.GameData // keyed by GameData.ID
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{games: make(map[string]*game.GameData)}
}

// Get returns a deep copy of the stored snapshot, or game.ErrNotFound.
func (m *Memory) Get(ctx context.Context, id string) (*game.GameData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, game.ErrNotFound
	}
	return g.Clone(), nil
}

// Put stores a snapshot, refreshing UpdatedAt and bumping Version.
// The incoming version must match the stored one (zero for a new game)
// or the write is rejected with game.ErrVersionConflict.
func (m *Memory) Put(ctx context.Context, g *game.GameData) (*game.GameData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.games[g.ID]; ok && cur.Version != g.Version {
		return nil, game.ErrVersionConflict
	}

	c := g.Clone()
	c.UpdatedAt = time.Now().UTC()
	c.Version++
	m.games[c.ID] = c
	return c.Clone(), nil
}

// List returns deep copies of every stored snapshot.
func (m *Memory) List(ctx context.Context) ([]*game.GameData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*game.GameData, 0, len(m.games))
	for _, g := range m.games {
		out = append(out, g.Clone())
	}
	return out, nil
}

// DeleteAll drops every stored game.
func (m *Memory) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games = make(map[string]*game.GameData)
	return nil
}
