package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/assets"
	"github.com/robalobadob/connections/internal/config"
	"github.com/robalobadob/connections/internal/httpserver"
	"github.com/robalobadob/connections/internal/kv"
	"github.com/robalobadob/connections/internal/puzzles"
	"github.com/robalobadob/connections/internal/round"
	"github.com/robalobadob/connections/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	values, closeKV, err := openKV(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to open storage")
	}
	defer closeKV()

	repo := puzzles.NewRepository(puzzleSource(cfg), values, puzzles.WithTTL(cfg.CacheTTL))
	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+5*time.Second)
	err = repo.Load(ctx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load puzzles")
	}
	if msg := repo.Advisory(); msg != "" {
		log.Warn().Str("advisory", msg).Msg("serving fallback puzzles")
	}

	srv := httpserver.New(store.NewMemoryStore(), repo, httpserver.Options{
		ClientOrigin:  cfg.ClientOrigin,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    time.Duration(cfg.SessionDays) * 24 * time.Hour,
		Secure:        cfg.Production,
		Timings:       round.DefaultTimings().Scale(cfg.PacingScale),
		DailySalt:     cfg.DailySalt,
	})
	log.Info().Str("port", cfg.Port).Str("puzzles", repo.Origin()).Msg("starting connections server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// openKV returns the SQLite-backed store, or the in-memory one for ":memory:".
func openKV(path string) (kv.Store, func(), error) {
	if path == config.MemoryDB {
		return kv.NewMemory(), func() {}, nil
	}
	db, err := openDB(path)
	if err != nil {
		return nil, nil, err
	}
	migrations, err := assets.Migrations()
	if err == nil {
		err = migrate(db, migrations)
	}
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return kv.NewSQLite(db), func() { db.Close() }, nil
}

// puzzleSource picks the upstream list: a local file, then PocketBase,
// then the public archive over HTTP.
func puzzleSource(cfg config.Config) puzzles.Source {
	switch {
	case cfg.PuzzlesFile != "":
		return puzzles.NewFileSource(cfg.PuzzlesFile)
	case cfg.PocketBaseURL != "":
		return puzzles.NewPocketBaseSource(cfg.PocketBaseURL, cfg.PocketBaseCollection,
			cfg.PocketBaseEmail, cfg.PocketBasePassword)
	default:
		return puzzles.NewHTTPSource(cfg.PuzzlesURL, cfg.FetchTimeout)
	}
}
