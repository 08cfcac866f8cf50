// internal/words/words.go
//
// Word list supply for board generation.
//
// Responsibilities:
//   - Load a noun list from an environment-provided file or fall back
//     to the embedded defaults.
//   - Draw n distinct words uniformly at random without replacement.
//
// Initialization behavior (NewList):
//   1. If WORDS_FILE is set, load one word per line from that file.
//   2. Otherwise use the embedded default list.
//
// Constraints:
//   • Words are normalized to lowercase a–z; anything else is skipped.
//   • Duplicates are dropped on load so Draw can guarantee distinctness.

package words

import (
	"bufio"
	"context"
	"crypto/rand"
	_ "embed"
	"fmt"
	"math/big"
	"os"
	"strings"
)

//go:embed default_nouns.txt
var embeddedNouns string

// List draws from a fixed in-memory word list.
type List struct {
	words []string
}

// NewList loads the word list from WORDS_FILE if set, else the
// embedded defaults. Fails if the resulting list is empty.
func NewList() (*List, error) {
	if path := os.Getenv("WORDS_FILE"); path != "" {
		ws, err := readWordFile(path)
		if err != nil {
			return nil, err
		}
		return NewListFrom(ws)
	}
	return NewListFrom(normalizeLines(embeddedNouns))
}

// NewListFrom builds a List from an explicit slice (tests, fallbacks).
func NewListFrom(ws []string) (*List, error) {
	ws = dedupe(ws)
	if len(ws) == 0 {
		return nil, fmt.Errorf("words: list is empty")
	}
	return &List{words: ws}, nil
}

// Draw returns n distinct words sampled uniformly without replacement.
// If the list holds fewer than n words it returns what it has; the
// board generator treats a short draw as a configuration error.
func (l *List) Draw(ctx context.Context, n int) ([]string, error) {
	pool := append([]string(nil), l.words...)
	if n > len(pool) {
		n = len(pool)
	}
	// Partial Fisher–Yates: fix positions [0,n) one swap at a time.
	for i := 0; i < n; i++ {
		j, err := randIndex(i, len(pool))
		if err != nil {
			return nil, err
		}
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n], nil
}

// Size reports how many words are loaded (diagnostics endpoint).
func (l *List) Size() int { return len(l.words) }

// randIndex returns a cryptographically random index in [lo, hi).
func randIndex(lo, hi int) (int, error) {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(hi-lo)))
	if err != nil {
		return 0, err
	}
	return lo + int(nBig.Int64()), nil
}

// readWordFile loads one word per line from a file, lowercases,
// trims, and keeps only alphabetic words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w := normalize(sc.Text()); w != "" {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// normalizeLines processes an embedded multiline string into a slice
// of valid lowercase words.
func normalizeLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if w := normalize(line); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// normalize lowercases and trims a candidate word, returning "" for
// anything that is not purely a–z.
func normalize(s string) string {
	w := strings.TrimSpace(strings.ToLower(s))
	if w == "" || !isAlpha(w) {
		return ""
	}
	return w
}

// dedupe drops repeated words, preserving first occurrence order.
func dedupe(ws []string) []string {
	seen := make(map[string]struct{}, len(ws))
	out := ws[:0]
	for _, w := range ws {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
