package game_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/store"
)

// seqWords is a deterministic word source: Draw returns the first n
// words in order, however few there are.
type seqWords []string

func (s seqWords) Draw(ctx context.Context, n int) ([]string, error) {
	if n > len(s) {
		n = len(s)
	}
	return s[:n], nil
}

func testWords(n int) seqWords {
	ws := make(seqWords, n)
	for i := range ws {
		ws[i] = fmt.Sprintf("word%02d", i)
	}
	return ws
}

func newEngine(t *testing.T, opts ...game.Option) *game.Engine {
	t.Helper()
	opts = append([]game.Option{game.WithRand(rand.New(rand.NewSource(42)))}, opts...)
	return game.NewEngine(store.NewMemory(), testWords(30), opts...)
}

// startedGame creates and starts a fresh game.
func startedGame(t *testing.T, eng *game.Engine) *game.GameData {
	t.Helper()
	ctx := context.Background()
	g, err := eng.CreateGame(ctx)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	g, err = eng.StartGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	return g
}

// hiddenWords returns the words of hidden cards belonging to team.
func hiddenWords(g *game.GameData, team game.Team) []string {
	var out []string
	for _, c := range g.Board {
		if !c.Visible && c.Team == team {
			out = append(out, c.Word)
		}
	}
	return out
}

func TestOpponent(t *testing.T) {
	if op, err := game.TeamRed.Opponent(); err != nil || op != game.TeamBlue {
		t.Errorf("RED opponent = %v, %v", op, err)
	}
	if op, err := game.TeamBlue.Opponent(); err != nil || op != game.TeamRed {
		t.Errorf("BLUE opponent = %v, %v", op, err)
	}
	for _, team := range []game.Team{game.TeamCitizen, game.TeamAssassin} {
		if _, err := team.Opponent(); err == nil {
			t.Errorf("%s.Opponent() should fail", team)
		}
	}
}

func TestCreateGame(t *testing.T) {
	eng := newEngine(t)
	g, err := eng.CreateGame(context.Background())
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if g.ID == "" {
		t.Error("expected a game id")
	}
	if g.GameStatus != game.StatusNew {
		t.Errorf("status = %s, want NEW", g.GameStatus)
	}
	if len(g.Board) != 0 || len(g.Turns) != 0 {
		t.Errorf("new game should have empty board and turns")
	}
	if g.StartingTeam != "" || g.CurrentTeam != "" || g.Winner != "" {
		t.Errorf("new game should have no teams assigned")
	}
	if g.UpdatedAt.Before(g.CreatedAt) {
		t.Errorf("updatedAt %v before createdAt %v", g.UpdatedAt, g.CreatedAt)
	}
}

func TestStartGameBoardComposition(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)

	if g.GameStatus != game.StatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", g.GameStatus)
	}
	if g.StartingTeam != game.TeamRed && g.StartingTeam != game.TeamBlue {
		t.Fatalf("startingTeam = %s", g.StartingTeam)
	}
	if g.CurrentTeam != g.StartingTeam {
		t.Errorf("currentTeam = %s, want %s", g.CurrentTeam, g.StartingTeam)
	}
	if len(g.Board) != game.DefaultBoardSize {
		t.Fatalf("board size = %d, want %d", len(g.Board), game.DefaultBoardSize)
	}

	opponent, _ := g.StartingTeam.Opponent()
	counts := map[game.Team]int{}
	seen := map[string]bool{}
	for _, c := range g.Board {
		counts[c.Team]++
		if c.Visible {
			t.Errorf("card %q starts visible", c.Word)
		}
		if seen[c.Word] {
			t.Errorf("duplicate board word %q", c.Word)
		}
		seen[c.Word] = true
	}
	if counts[g.StartingTeam] != game.BaseAgents+1 {
		t.Errorf("%s cards = %d, want %d", g.StartingTeam, counts[g.StartingTeam], game.BaseAgents+1)
	}
	if counts[opponent] != game.BaseAgents {
		t.Errorf("%s cards = %d, want %d", opponent, counts[opponent], game.BaseAgents)
	}
	if counts[game.TeamAssassin] != 1 {
		t.Errorf("assassin cards = %d, want 1", counts[game.TeamAssassin])
	}
	wantCitizens := game.DefaultBoardSize - 2 - 2*game.BaseAgents
	if counts[game.TeamCitizen] != wantCitizens {
		t.Errorf("citizen cards = %d, want %d", counts[game.TeamCitizen], wantCitizens)
	}

	// Agent counters match the board split.
	starting, other := g.RedAgentsLeft, g.BlueAgentsLeft
	if g.StartingTeam == game.TeamBlue {
		starting, other = other, starting
	}
	if starting != game.BaseAgents+1 || other != game.BaseAgents {
		t.Errorf("agent counters = %d/%d, want %d/%d", starting, other, game.BaseAgents+1, game.BaseAgents)
	}
}

func TestStartGameRequiresNew(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)

	if _, err := eng.StartGame(context.Background(), g.ID); !errorsIs(err, game.ErrInvalidState) {
		t.Errorf("second start: err = %v, want InvalidState", err)
	}
}

func TestStartGameNotFound(t *testing.T) {
	eng := newEngine(t)
	if _, err := eng.StartGame(context.Background(), "nope"); !errorsIs(err, game.ErrNotFound) {
		t.Errorf("err = %v, want NotFound", err)
	}
}

func TestStartGameShortWordList(t *testing.T) {
	eng := game.NewEngine(store.NewMemory(), testWords(10),
		game.WithRand(rand.New(rand.NewSource(42))))
	ctx := context.Background()
	g, err := eng.CreateGame(ctx)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := eng.StartGame(ctx, g.ID); !errorsIs(err, game.ErrConfiguration) {
		t.Errorf("err = %v, want ConfigurationError", err)
	}
}

func TestStartGameRejectsTinyBoard(t *testing.T) {
	eng := newEngine(t, game.WithBoardSize(10))
	ctx := context.Background()
	g, err := eng.CreateGame(ctx)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := eng.StartGame(ctx, g.ID); !errorsIs(err, game.ErrConfiguration) {
		t.Errorf("err = %v, want ConfigurationError", err)
	}
}

func TestGiveClueAccounting(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)
	ctx := context.Background()

	g, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: "fruit", ClueNumber: 3})
	if err != nil {
		t.Fatalf("give clue: %v", err)
	}
	if len(g.Turns) != 1 {
		t.Fatalf("turns = %d, want 1", len(g.Turns))
	}
	turn := g.Turns[0]
	if turn.GuessesLeft != 4 {
		t.Errorf("guessesLeft = %d, want 4", turn.GuessesLeft)
	}
	if turn.Team != g.CurrentTeam {
		t.Errorf("turn team = %s, want %s", turn.Team, g.CurrentTeam)
	}
	if turn.ClueString != "fruit" || turn.ClueNumber != 3 {
		t.Errorf("clue = %q/%d", turn.ClueString, turn.ClueNumber)
	}
	if turn.GuessString != nil || turn.Correct != nil {
		t.Errorf("fresh turn should have nil guess and correctness")
	}
}

func TestGiveClueRequiresInProgress(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	g, err := eng.CreateGame(ctx)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: "fruit", ClueNumber: 1}); !errorsIs(err, game.ErrInvalidState) {
		t.Errorf("clue on NEW game: err = %v, want InvalidState", err)
	}
}

func TestIllegalClueForfeitsTurn(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)
	ctx := context.Background()

	before := g.CurrentTeam
	opponent, _ := before.Opponent()

	// A clue that is itself a board word is penalized.
	g, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: g.Board[0].Word, ClueNumber: 2})
	if err != nil {
		t.Fatalf("give clue: %v", err)
	}
	if got := g.Turns[len(g.Turns)-1].GuessesLeft; got != 0 {
		t.Errorf("guessesLeft = %d, want 0", got)
	}
	if g.CurrentTeam != opponent {
		t.Errorf("currentTeam = %s, want %s", g.CurrentTeam, opponent)
	}

	// The forfeiting team cannot guess against the dead turn.
	if _, err := eng.MakeGuess(ctx, g.ID, g.Board[0].Word); !errorsIs(err, game.ErrInvalidState) {
		t.Errorf("guess after illegal clue: err = %v, want InvalidState", err)
	}
}

func TestMakeGuessRequiresClue(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)
	if _, err := eng.MakeGuess(context.Background(), g.ID, g.Board[0].Word); !errorsIs(err, game.ErrInvalidState) {
		t.Errorf("guess with no clue: err = %v, want InvalidState", err)
	}
}

func TestMakeGuessUnknownWord(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)
	ctx := context.Background()
	if _, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: "fruit", ClueNumber: 1}); err != nil {
		t.Fatalf("give clue: %v", err)
	}
	if _, err := eng.MakeGuess(ctx, g.ID, "notonboard"); !errorsIs(err, game.ErrInvalidArgument) {
		t.Errorf("err = %v, want InvalidArgument", err)
	}
}

func TestCorrectGuessKeepsTurn(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)
	ctx := context.Background()

	team := g.CurrentTeam
	agentsBefore := agentsLeft(g, team)
	g, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: "fruit", ClueNumber: 2})
	if err != nil {
		t.Fatalf("give clue: %v", err)
	}

	word := hiddenWords(g, team)[0]
	g, err = eng.MakeGuess(ctx, g.ID, word)
	if err != nil {
		t.Fatalf("make guess: %v", err)
	}

	turn := g.Turns[len(g.Turns)-1]
	if turn.Correct == nil || !*turn.Correct {
		t.Errorf("correct = %v, want true", turn.Correct)
	}
	if turn.GuessString == nil || *turn.GuessString != word {
		t.Errorf("guessString = %v, want %q", turn.GuessString, word)
	}
	if turn.GuessesLeft != 2 {
		t.Errorf("guessesLeft = %d, want 2", turn.GuessesLeft)
	}
	if agentsLeft(g, team) != agentsBefore-1 {
		t.Errorf("agents left = %d, want %d", agentsLeft(g, team), agentsBefore-1)
	}
	if g.CurrentTeam != team {
		t.Errorf("currentTeam flipped on a correct guess")
	}
	if !cardVisible(g, word) {
		t.Errorf("guessed card should be visible")
	}
}

func TestReguessingRevealedWordFails(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)
	ctx := context.Background()

	team := g.CurrentTeam
	g, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: "fruit", ClueNumber: 3})
	if err != nil {
		t.Fatalf("give clue: %v", err)
	}
	word := hiddenWords(g, team)[0]
	if _, err := eng.MakeGuess(ctx, g.ID, word); err != nil {
		t.Fatalf("first guess: %v", err)
	}

	// Already revealed: same error kind as a word that was never there.
	if _, err := eng.MakeGuess(ctx, g.ID, word); !errorsIs(err, game.ErrInvalidArgument) {
		t.Errorf("re-guess: err = %v, want InvalidArgument", err)
	}
	g, err = eng.Game(ctx, g.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if !cardVisible(g, word) {
		t.Errorf("failed re-guess must not hide the card again")
	}
}

func TestOpponentCardGuess(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)
	ctx := context.Background()

	team := g.CurrentTeam
	opponent, _ := team.Opponent()
	oppAgentsBefore := agentsLeft(g, opponent)

	g, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: "fruit", ClueNumber: 2})
	if err != nil {
		t.Fatalf("give clue: %v", err)
	}
	word := hiddenWords(g, opponent)[0]
	g, err = eng.MakeGuess(ctx, g.ID, word)
	if err != nil {
		t.Fatalf("make guess: %v", err)
	}

	turn := g.Turns[len(g.Turns)-1]
	if turn.Correct == nil || *turn.Correct {
		t.Errorf("correct = %v, want false", turn.Correct)
	}
	if turn.GuessesLeft != 0 {
		t.Errorf("guessesLeft = %d, want 0", turn.GuessesLeft)
	}
	if agentsLeft(g, opponent) != oppAgentsBefore-1 {
		t.Errorf("opponent agents = %d, want %d", agentsLeft(g, opponent), oppAgentsBefore-1)
	}
	if g.CurrentTeam != opponent {
		t.Errorf("currentTeam = %s, want %s", g.CurrentTeam, opponent)
	}
	if g.GameStatus != game.StatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", g.GameStatus)
	}
}

func TestCitizenGuessEndsTurn(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)
	ctx := context.Background()

	team := g.CurrentTeam
	opponent, _ := team.Opponent()
	red, blue := g.RedAgentsLeft, g.BlueAgentsLeft

	g, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: "fruit", ClueNumber: 2})
	if err != nil {
		t.Fatalf("give clue: %v", err)
	}
	word := hiddenWords(g, game.TeamCitizen)[0]
	g, err = eng.MakeGuess(ctx, g.ID, word)
	if err != nil {
		t.Fatalf("make guess: %v", err)
	}

	if g.GameStatus != game.StatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", g.GameStatus)
	}
	if g.CurrentTeam != opponent {
		t.Errorf("currentTeam = %s, want %s", g.CurrentTeam, opponent)
	}
	if !cardVisible(g, word) {
		t.Errorf("citizen card should be revealed")
	}
	if g.RedAgentsLeft != red || g.BlueAgentsLeft != blue {
		t.Errorf("citizen guess must not change agent counters")
	}
}

func TestAssassinGuessEndsGame(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)
	ctx := context.Background()

	team := g.CurrentTeam
	opponent, _ := team.Opponent()

	g, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: "fruit", ClueNumber: 1})
	if err != nil {
		t.Fatalf("give clue: %v", err)
	}
	word := hiddenWords(g, game.TeamAssassin)[0]
	g, err = eng.MakeGuess(ctx, g.ID, word)
	if err != nil {
		t.Fatalf("make guess: %v", err)
	}

	if g.GameStatus != game.StatusGameOver {
		t.Fatalf("status = %s, want GAME_OVER", g.GameStatus)
	}
	if g.Winner != opponent {
		t.Errorf("winner = %s, want %s", g.Winner, opponent)
	}
	// Current team is frozen once the game ends.
	if g.CurrentTeam != team {
		t.Errorf("currentTeam = %s, want %s", g.CurrentTeam, team)
	}

	if _, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: "late", ClueNumber: 1}); !errorsIs(err, game.ErrInvalidState) {
		t.Errorf("clue on finished game: err = %v, want InvalidState", err)
	}
	if _, err := eng.MakeGuess(ctx, g.ID, "anything"); !errorsIs(err, game.ErrInvalidState) {
		t.Errorf("guess on finished game: err = %v, want InvalidState", err)
	}
}

func TestWinByFindingAllAgents(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)
	ctx := context.Background()

	team := g.CurrentTeam
	words := hiddenWords(g, team)
	if len(words) != game.BaseAgents+1 {
		t.Fatalf("starting team has %d hidden cards, want %d", len(words), game.BaseAgents+1)
	}

	// One generous clue covers every agent.
	g, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: "everything", ClueNumber: len(words)})
	if err != nil {
		t.Fatalf("give clue: %v", err)
	}
	for _, w := range words {
		g, err = eng.MakeGuess(ctx, g.ID, w)
		if err != nil {
			t.Fatalf("guess %q: %v", w, err)
		}
	}

	if agentsLeft(g, team) != 0 {
		t.Errorf("agents left = %d, want 0", agentsLeft(g, team))
	}
	if g.GameStatus != game.StatusGameOver {
		t.Errorf("status = %s, want GAME_OVER", g.GameStatus)
	}
	if g.Winner != team {
		t.Errorf("winner = %s, want %s", g.Winner, team)
	}
}

func TestGuessesExhaustedFlipsTurn(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)
	ctx := context.Background()

	team := g.CurrentTeam
	opponent, _ := team.Opponent()

	// Clue of 0 allows exactly one guess.
	g, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: "fruit", ClueNumber: 0})
	if err != nil {
		t.Fatalf("give clue: %v", err)
	}
	word := hiddenWords(g, team)[0]
	g, err = eng.MakeGuess(ctx, g.ID, word)
	if err != nil {
		t.Fatalf("make guess: %v", err)
	}
	if g.CurrentTeam != opponent {
		t.Errorf("currentTeam = %s, want %s after guesses run out", g.CurrentTeam, opponent)
	}
	if _, err := eng.MakeGuess(ctx, g.ID, hiddenWords(g, team)[0]); !errorsIs(err, game.ErrInvalidState) {
		t.Errorf("extra guess: err = %v, want InvalidState", err)
	}
}

func TestTurnsAreAppendOnly(t *testing.T) {
	eng := newEngine(t)
	g := startedGame(t, eng)
	ctx := context.Background()

	team := g.CurrentTeam
	g, err := eng.GiveClue(ctx, g.ID, game.Clue{ClueString: "fruit", ClueNumber: 1})
	if err != nil {
		t.Fatalf("give clue: %v", err)
	}
	word := hiddenWords(g, team)[0]
	g, err = eng.MakeGuess(ctx, g.ID, word)
	if err != nil {
		t.Fatalf("make guess: %v", err)
	}

	if len(g.Turns) != 2 {
		t.Fatalf("turns = %d, want 2 (clue turn + guess turn)", len(g.Turns))
	}
	// The clue turn is untouched; the guess produced a new record.
	if g.Turns[0].GuessString != nil || g.Turns[0].GuessesLeft != 2 {
		t.Errorf("original clue turn was mutated: %+v", g.Turns[0])
	}
	if g.Turns[1].GuessString == nil || *g.Turns[1].GuessString != word {
		t.Errorf("guess turn = %+v", g.Turns[1])
	}
}

func agentsLeft(g *game.GameData, t game.Team) int {
	if t == game.TeamRed {
		return g.RedAgentsLeft
	}
	return g.BlueAgentsLeft
}

func cardVisible(g *game.GameData, word string) bool {
	for _, c := range g.Board {
		if c.Word == word {
			return c.Visible
		}
	}
	return false
}

func errorsIs(err, target error) bool {
	return err != nil && errors.Is(err, target)
}
