// internal/game/board.go
//
// Board generation for a new session.
// Responsibilities:
//   - Draw N distinct words from the configured word source.
//   - Assign teams in word-list order: B+1 to the starting team,
//     B to the opponent, N-2-2B citizens, and one assassin.
//   - Shuffle card order so the assignment cannot be read off the
//     word list's ordering.
//
// The asymmetric split (B+1 vs B) encodes the first-mover advantage:
// the starting team has one extra agent to find.

package game

import (
	"context"
	"math/rand"
)

const (
	// DefaultBoardSize is the number of cards on a board.
	DefaultBoardSize = 25

	// BaseAgents is the agent count per team before the starting
	// team's extra card is added.
	BaseAgents = 8
)

// generateBoard draws words and returns a shuffled board for the given
// starting team. It fails with ErrConfiguration if the source returns
// fewer than boardSize words.
func generateBoard(ctx context.Context, src WordSource, rng *rand.Rand, boardSize int, startingTeam Team) ([]Card, error) {
	opponent, err := startingTeam.Opponent()
	if err != nil {
		return nil, err
	}

	words, err := src.Draw(ctx, boardSize)
	if err != nil {
		return nil, err
	}
	if len(words) < boardSize {
		return nil, configurationf("word source returned %d words, need %d", len(words), boardSize)
	}

	cards := make([]Card, 0, boardSize)
	for i, w := range words[:boardSize] {
		cards = append(cards, Card{Team: teamForSlot(i, boardSize, startingTeam, opponent), Word: w})
	}

	// Shuffle order only; team assignment is already fixed per card.
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards, nil
}

// teamForSlot maps a word-list index to its team before shuffling:
// [0, B] starting team, (B, 2B] opponent, then citizens, last assassin.
func teamForSlot(i, boardSize int, startingTeam, opponent Team) Team {
	switch {
	case i <= BaseAgents:
		return startingTeam
	case i <= 2*BaseAgents:
		return opponent
	case i < boardSize-1:
		return TeamCitizen
	default:
		return TeamAssassin
	}
}
