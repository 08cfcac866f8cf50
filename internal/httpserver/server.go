// internal/httpserver/server.go
//
// HTTP wiring for the Codenames backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery,
//     timeouts, JSON content type, env-configured CORS).
//   - Game endpoints under /api/games: create, list, fetch, start,
//     clue, guess, clear.
//   - Mapping engine error kinds to HTTP status codes.
//   - Diagnostics: "/", "/health", "/debug/words".
//
// Notes:
//   - The core engine performs no logging; failures are logged here,
//     at the boundary, before being translated for the client.
//   - Responses carry the full GameData snapshot. Per-player view
//     filtering (hiding unrevealed card teams from guessers) would
//     live in this layer if it is ever added.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codenames/internal/game"
)

// Server bundles the router and the game engine.
type Server struct {
	r      *chi.Mux
	engine *game.Engine
	words  game.WordSource
}

// New constructs a Server, installs middleware, and registers routes.
func New(eng *game.Engine, words game.WordSource) *Server {
	s := &Server{r: chi.NewRouter(), engine: eng, words: words}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"codenames-go","endpoints":["/health","POST /api/games","GET /api/games","GET /api/games/{gameID}","POST /api/games/{gameID}/start","POST /api/games/{gameID}/clue","POST /api/games/{gameID}/guess","DELETE /api/games"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", s.handleDebugWords)

	// --- game API ---
	s.r.Route("/api/games", func(r chi.Router) {
		r.Post("/", s.handleCreateGame)
		r.Get("/", s.handleListGames)
		r.Delete("/", s.handleClearGames)
		r.Get("/{gameID}", s.handleGetGame)
		r.Post("/{gameID}/start", s.handleStartGame)
		r.Post("/{gameID}/clue", s.handleGiveClue)
		r.Post("/{gameID}/guess", s.handleMakeGuess)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ handlers -----------------------------------

// createGameRes is the payload for POST /api/games.
type createGameRes struct {
	GameID string `json:"gameId"`
}

// handleCreateGame persists an empty NEW game and returns its id.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.engine.CreateGame(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, createGameRes{GameID: g.ID})
}

// handleListGames returns every stored game snapshot.
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	gs, err := s.engine.Games(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

// handleGetGame returns one game snapshot (full truth: board teams
// included regardless of visibility).
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.engine.Game(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleStartGame transitions a NEW game to IN_PROGRESS.
func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.engine.StartGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleGiveClue records a clue for the current team.
func (s *Server) handleGiveClue(w http.ResponseWriter, r *http.Request) {
	var clue game.Clue
	if err := json.NewDecoder(r.Body).Decode(&clue); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := s.engine.GiveClue(r.Context(), chi.URLParam(r, "gameID"), clue)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// guessReq is the payload for POST /api/games/{gameID}/guess.
type guessReq struct {
	Guess string `json:"guess"`
}

// handleMakeGuess applies one guess for the current team.
func (s *Server) handleMakeGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := s.engine.MakeGuess(r.Context(), chi.URLParam(r, "gameID"), req.Guess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleClearGames deletes every stored game.
func (s *Server) handleClearGames(w http.ResponseWriter, r *http.Request) {
	log.Warn().Msg("deleting all games")
	if err := s.engine.Clear(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDebugWords reports the loaded word count when the configured
// source can count itself.
func (s *Server) handleDebugWords(w http.ResponseWriter, r *http.Request) {
	if counter, ok := s.words.(interface{ Size() int }); ok {
		writeJSON(w, http.StatusOK, map[string]int{"words": counter.Size()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"words": "remote"})
}

// --------------------------- error mapping ---------------------------------

// writeError translates engine error kinds into HTTP status codes:
// NotFound→404, InvalidArgument→400, InvalidState and version
// conflicts→409, ConfigurationError and everything else→500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidState), errors.Is(err, game.ErrVersionConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// ------------------------------ helpers ------------------------------------

// writeJSON encodes v with the given status. Encoding errors are
// logged; headers are already gone by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
