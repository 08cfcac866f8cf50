// internal/game/engine.go
//
// Core turn engine for Codenames sessions.
// Responsibilities:
//   - Create sessions and transition them NEW → IN_PROGRESS → GAME_OVER.
//   - Validate and apply clues and guesses, appending turn records.
//   - Evaluate win conditions after every guess.
//   - Serialize mutating calls per game id so "one mutation in flight"
//     is an enforced invariant, not an assumption.
//
// Notes:
//   - The engine never mutates a stored snapshot: it deep-copies what
//     the store returns, mutates the copy, and writes it back once.
//   - Persistence and word supply are injected collaborators; the
//     engine performs no logging and no retries (failures are pure
//     signals for the boundary layer).
//   - Randomness (starting team, board shuffle) comes from an injected
//     *rand.Rand so tests can supply deterministic orderings.

package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence collaborator. One GameData document per
// game id; Put refreshes UpdatedAt and bumps Version, rejecting stale
// snapshots with ErrVersionConflict.
type Store interface {
	// Get retrieves a snapshot by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*GameData, error)

	// Put persists a snapshot atomically and returns the stored copy.
	Put(ctx context.Context, g *GameData) (*GameData, error)

	// List returns every stored snapshot.
	List(ctx context.Context) ([]*GameData, error)

	// DeleteAll removes every stored snapshot.
	DeleteAll(ctx context.Context) error
}

// WordSource supplies n distinct words on demand. Order is the only
// structure board generation relies on.
type WordSource interface {
	Draw(ctx context.Context, n int) ([]string, error)
}

// Engine applies game actions against stored snapshots.
type Engine struct {
	store     Store
	words     WordSource
	boardSize int

	rngMu sync.Mutex
	rng   *rand.Rand

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex // per game id
}

// Option customizes an Engine.
type Option func(*Engine)

// WithBoardSize overrides the default board size. Sizes that cannot
// hold both teams' agents plus the assassin are rejected at start.
func WithBoardSize(n int) Option {
	return func(e *Engine) { e.boardSize = n }
}

// WithRand supplies a deterministic random source (tests).
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// NewEngine constructs an Engine around a store and a word source.
func NewEngine(store Store, words WordSource, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		words:     words,
		boardSize: DefaultBoardSize,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		locks:     make(map[string]*sync.Mutex),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// lockGame acquires the per-game mutex, creating it on first use, and
// returns the unlock func. Lock entries are never reaped; a process
// hosts far fewer games than it has memory for mutexes.
func (e *Engine) lockGame(id string) func() {
	e.locksMu.Lock()
	mu, ok := e.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[id] = mu
	}
	e.locksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// CreateGame persists an empty NEW session and returns it.
func (e *Engine) CreateGame(ctx context.Context) (*GameData, error) {
	now := time.Now().UTC()
	g := &GameData{
		ID:             uuid.NewString(),
		CreatedAt:      now,
		UpdatedAt:      now,
		RedAgentsLeft:  BaseAgents,
		BlueAgentsLeft: BaseAgents,
		GameStatus:     StatusNew,
		Board:          []Card{},
		Turns:          []Turn{},
	}
	return e.store.Put(ctx, g)
}

// Game fetches one snapshot by id.
func (e *Engine) Game(ctx context.Context, id string) (*GameData, error) {
	return e.store.Get(ctx, id)
}

// Games fetches every stored snapshot.
func (e *Engine) Games(ctx context.Context) ([]*GameData, error) {
	return e.store.List(ctx)
}

// Clear deletes every stored game.
func (e *Engine) Clear(ctx context.Context) error {
	return e.store.DeleteAll(ctx)
}

// StartGame transitions a NEW game to IN_PROGRESS: picks a starting
// team at random, grants it the extra agent, generates the board, and
// persists the result. Starting a game twice is an InvalidState error;
// re-randomizing a board mid-game is never allowed.
func (e *Engine) StartGame(ctx context.Context, id string) (*GameData, error) {
	if e.boardSize < 2*BaseAgents+2 {
		return nil, configurationf("board size %d cannot hold %d agents per team plus the assassin", e.boardSize, BaseAgents)
	}

	defer e.lockGame(id)()

	g, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.GameStatus != StatusNew {
		return nil, invalidStatef("game %s already started (status %s)", id, g.GameStatus)
	}

	g.RedAgentsLeft = BaseAgents
	g.BlueAgentsLeft = BaseAgents
	if e.randBool() {
		g.StartingTeam = TeamRed
		g.RedAgentsLeft++
	} else {
		g.StartingTeam = TeamBlue
		g.BlueAgentsLeft++
	}
	g.CurrentTeam = g.StartingTeam

	board, err := e.board(ctx, g.StartingTeam)
	if err != nil {
		return nil, err
	}
	g.Board = board
	g.GameStatus = StatusInProgress

	return e.store.Put(ctx, g)
}

// GiveClue appends a new turn for the current team. This is the only
// place a Turn is created; guesses mutate a copy of the latest one.
//
// A clue that matches any board word, visible or not, is accepted but
// penalized: guesses are zeroed and the turn passes immediately.
func (e *Engine) GiveClue(ctx context.Context, id string, clue Clue) (*GameData, error) {
	defer e.lockGame(id)()

	g, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.GameStatus != StatusInProgress {
		return nil, invalidStatef("game %s is %s, clues require IN_PROGRESS", id, g.GameStatus)
	}

	turn := Turn{
		Team:        g.CurrentTeam,
		ClueString:  clue.ClueString,
		ClueNumber:  clue.ClueNumber,
		GuessesLeft: clue.ClueNumber + 1,
		CreatedAt:   time.Now().UTC(),
	}

	if g.wordOnBoard(clue.ClueString) {
		turn.GuessesLeft = 0
		opponent, err := g.CurrentTeam.Opponent()
		if err != nil {
			return nil, err
		}
		g.CurrentTeam = opponent
	}

	g.Turns = append(g.Turns, turn)
	return e.store.Put(ctx, g)
}

// MakeGuess applies one guess for the current team against the latest
// turn, reveals the matching card, and evaluates win conditions.
func (e *Engine) MakeGuess(ctx context.Context, id, guess string) (*GameData, error) {
	defer e.lockGame(id)()

	g, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.GameStatus != StatusInProgress {
		return nil, invalidStatef("game %s is %s, guesses require IN_PROGRESS", id, g.GameStatus)
	}

	turn, ok := g.lastTurn()
	if !ok {
		return nil, invalidStatef("no clue given yet for game %s", id)
	}
	if turn.Team != g.CurrentTeam {
		return nil, invalidStatef("waiting for %s's clue", g.CurrentTeam)
	}
	if turn.GuessesLeft <= 0 {
		return nil, invalidStatef("no guesses left for %s's clue %q", turn.Team, turn.ClueString)
	}

	turn.GuessesLeft--
	turn.GuessString = &guess

	idx := g.hiddenCardIndex(guess)
	if idx < 0 {
		return nil, invalidArgumentf("%q is not a hidden board word", guess)
	}
	g.Board[idx].Visible = true
	hit := g.Board[idx].Team

	opponent, err := g.CurrentTeam.Opponent()
	if err != nil {
		return nil, err
	}

	correct := hit == g.CurrentTeam
	turn.Correct = &correct
	if correct {
		g.decrementAgents(g.CurrentTeam)
	} else {
		turn.GuessesLeft = 0
		if hit == opponent {
			// The guessing team just did the opponent's work.
			g.decrementAgents(opponent)
		}
	}
	g.Turns = append(g.Turns, turn)

	if evaluateWin(g, hit == TeamAssassin, opponent) {
		return e.store.Put(ctx, g)
	}
	if turn.GuessesLeft == 0 {
		g.CurrentTeam = opponent
	}
	return e.store.Put(ctx, g)
}

// evaluateWin checks end conditions in priority order: assassin hit,
// then red exhausted, then blue exhausted. Returns true if the game
// ended; a finished game never flips CurrentTeam afterward.
func evaluateWin(g *GameData, assassinHit bool, opponent Team) bool {
	switch {
	case assassinHit:
		g.Winner = opponent
	case g.RedAgentsLeft == 0:
		g.Winner = TeamRed
	case g.BlueAgentsLeft == 0:
		g.Winner = TeamBlue
	default:
		return false
	}
	g.GameStatus = StatusGameOver
	return true
}

// load fetches a snapshot and deep-copies it so the engine owns the
// working state exclusively for the rest of the call.
func (e *Engine) load(ctx context.Context, id string) (*GameData, error) {
	g, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

// board draws words and generates a shuffled board under the rng lock.
func (e *Engine) board(ctx context.Context, startingTeam Team) ([]Card, error) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return generateBoard(ctx, e.words, e.rng, e.boardSize, startingTeam)
}

func (e *Engine) randBool() bool {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(2) == 0
}

// wordOnBoard reports whether w matches any board word, case
// sensitively and regardless of visibility.
func (g *GameData) wordOnBoard(w string) bool {
	for _, c := range g.Board {
		if c.Word == w {
			return true
		}
	}
	return false
}

// hiddenCardIndex finds the hidden card for w, or -1. A revealed word
// and an absent word are indistinguishable to the caller on purpose:
// both are invalid guesses.
func (g *GameData) hiddenCardIndex(w string) int {
	for i, c := range g.Board {
		if !c.Visible && c.Word == w {
			return i
		}
	}
	return -1
}

func (g *GameData) decrementAgents(t Team) {
	switch t {
	case TeamRed:
		g.RedAgentsLeft--
	case TeamBlue:
		g.BlueAgentsLeft--
	}
}
