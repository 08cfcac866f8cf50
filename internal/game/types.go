// internal/game/types.go
//
// Core type definitions for the Codenames game engine.
// Defines:
//   - Team: card ownership and turn-taking sides (RED/BLUE play,
//     CITIZEN/ASSASSIN are card-only designations).
//   - GameStatus: lifecycle of a session (NEW → IN_PROGRESS → GAME_OVER).
//   - Card: one board tile (team, word, visibility).
//   - Clue: an ephemeral clue input (word + number).
//   - Turn: the record of one clue and the guesses taken against it.
//   - GameData: the authoritative snapshot of a single session.

package game

import "time"

// Team identifies card ownership. Only RED and BLUE take turns;
// CITIZEN and ASSASSIN exist only on cards.
type Team string

const (
	TeamRed      Team = "RED"
	TeamBlue     Team = "BLUE"
	TeamCitizen  Team = "CITIZEN"
	TeamAssassin Team = "ASSASSIN"
)

// Opponent returns the opposing player team.
// It fails for CITIZEN and ASSASSIN, which never take turns.
func (t Team) Opponent() (Team, error) {
	switch t {
	case TeamRed:
		return TeamBlue, nil
	case TeamBlue:
		return TeamRed, nil
	}
	return "", invalidArgumentf("team %s has no opponent", t)
}

// GameStatus tracks the lifecycle of a session. It only ever moves
// forward: NEW → IN_PROGRESS → GAME_OVER.
type GameStatus string

const (
	StatusNew        GameStatus = "NEW"
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusGameOver   GameStatus = "GAME_OVER"
)

// Card is a single board tile. Visible flips exactly once, from false
// to true, when the word is successfully guessed.
type Card struct {
	Team    Team   `json:"team"`
	Word    string `json:"word"`
	Visible bool   `json:"isVisible"`
}

// Clue is the input to GiveClue. It is never stored standalone; its
// contents are copied into the Turn it produces.
type Clue struct {
	ClueString string `json:"clueString"`
	ClueNumber int    `json:"clueNumber"`
}

// Turn records one clue and the guesses consumed against it.
// GuessString and Correct are nil until a guess is applied.
// GuessesLeft starts at ClueNumber+1 (the clue giver may be wrong by
// one) and is decremented per guess.
type Turn struct {
	Team        Team      `json:"team"`
	ClueString  string    `json:"clueString"`
	GuessString *string   `json:"guessString"`
	ClueNumber  int       `json:"clueNumber"`
	GuessesLeft int       `json:"guessesLeft"`
	Correct     *bool     `json:"correct"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GameData is the aggregate root for one session. The store is the
// only long-lived owner; during a mutating call the engine works on a
// private deep copy and writes it back once, atomically.
type GameData struct {
	ID             string     `json:"id"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	StartingTeam   Team       `json:"startingTeam,omitempty"`
	CurrentTeam    Team       `json:"currentTeam,omitempty"`
	RedAgentsLeft  int        `json:"redAgentsLeft"`
	BlueAgentsLeft int        `json:"blueAgentsLeft"`
	GameStatus     GameStatus `json:"gameStatus"`
	Board          []Card     `json:"board"`
	Winner         Team       `json:"winner,omitempty"`
	Turns          []Turn     `json:"turns"`

	// Version is bumped by the store on every successful write and
	// checked on Put so a stale snapshot can never clobber a newer one.
	Version int64 `json:"version"`
}

// Clone returns a deep copy of the snapshot. Board and Turns slices
// are copied; pointer fields inside turns are re-allocated so the
// copy shares no mutable state with the original.
func (g *GameData) Clone() *GameData {
	c := *g
	c.Board = append([]Card(nil), g.Board...)
	c.Turns = make([]Turn, len(g.Turns))
	for i, t := range g.Turns {
		c.Turns[i] = cloneTurn(t)
	}
	return &c
}

func cloneTurn(t Turn) Turn {
	if t.GuessString != nil {
		s := *t.GuessString
		t.GuessString = &s
	}
	if t.Correct != nil {
		b := *t.Correct
		t.Correct = &b
	}
	return t
}

// lastTurn returns a copy of the most recent turn, or false if no clue
// has been given yet.
func (g *GameData) lastTurn() (Turn, bool) {
	if len(g.Turns) == 0 {
		return Turn{}, false
	}
	return cloneTurn(g.Turns[len(g.Turns)-1]), true
}
