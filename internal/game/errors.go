// internal/game/errors.go
//
// Error kinds surfaced by the game engine. These are contracts for the
// HTTP boundary to translate into status codes, not logged or retried
// here. Callers classify with errors.Is against the sentinels; the
// *f helpers attach context while keeping the kind matchable.

package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: the requested game id has no stored snapshot.
	ErrNotFound = errors.New("game not found")

	// ErrInvalidState: the action is not allowed while the game is in
	// its current status (clue before start, guess with no clue, etc).
	ErrInvalidState = errors.New("invalid game state")

	// ErrInvalidArgument: the input refers to nothing actionable, such
	// as a guess for a word that is not a currently hidden board word.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConfiguration: the word source could not supply enough words
	// for the configured board size.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrVersionConflict: a write raced another writer for the same
	// game. With the engine's per-game locking this indicates an
	// out-of-band writer.
	ErrVersionConflict = errors.New("version conflict")
)

func invalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func invalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func configurationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
