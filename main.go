// main.go
//
// Process wiring for the Codenames Go server.
// Reads configuration from the environment (.env supported), sets up
// logging, persistence, the word source, the game engine, and the HTTP
// server.
//
// Environment variables:
//   PORT            listen port (default 5175)
//   LOG_LEVEL       zerolog level (default info)
//   STORE           "sqlite" (default) or "memory"
//   DB_PATH         sqlite file path (default ./data/codenames.db)
//   BOARD_SIZE      cards per board (default 25)
//   WORDS_FILE      optional word list override (one word per line)
//   WORDS_API_URL   optional remote random-word endpoint

package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/httpserver"
	"github.com/robalobadob/codenames/internal/store"
	"github.com/robalobadob/codenames/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// Word source: embedded/file list, optionally fronted by a remote API.
	list, err := words.NewList()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	var src game.WordSource = list
	if apiURL := os.Getenv("WORDS_API_URL"); apiURL != "" {
		src = words.NewAPI(apiURL, list)
		log.Info().Str("url", apiURL).Msg("using remote word source")
	}

	// Persistence: sqlite document store by default, memory for dev.
	var st game.Store
	switch getEnv("STORE", "sqlite") {
	case "memory":
		st = store.NewMemory()
	default:
		db, err := openDB(getEnv("DB_PATH", "./data/codenames.db"))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open database")
		}
		defer db.Close()
		if err := migrate(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		st = store.NewSQLite(db)
	}

	opts := []game.Option{}
	if v := os.Getenv("BOARD_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatal().Str("BOARD_SIZE", v).Msg("invalid board size")
		}
		opts = append(opts, game.WithBoardSize(n))
	}
	eng := game.NewEngine(st, src, opts...)

	srv := httpserver.New(eng, src)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting codenames server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
