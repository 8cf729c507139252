// Command seed loads the static bootstrap dataset from a data directory and
// upserts it into Postgres. Idempotent: running it twice leaves the same row
// counts.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"nbaroster/backend/internal/config"
	"nbaroster/backend/internal/repository"
	"nbaroster/backend/internal/seed"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	dataDir := flag.String("data", "data", "directory containing teams.json, players.json, seasons.json, rosters.json")
	flag.Parse()

	cfg := config.MustLoad()

	data, err := seed.Load(*dataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load seed data")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.ApplySchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	result, err := seed.Run(ctx, db, data)
	if err != nil {
		log.Fatal().Err(err).Msg("Seed failed")
	}

	log.Info().Stringer("result", result).Msg("Seed complete. Run again to verify idempotency (same row counts).")
}
