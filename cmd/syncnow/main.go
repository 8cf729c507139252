// Command syncnow runs one sync cycle and exits: fetch from the external
// provider, reconcile into Postgres, invalidate the team cache namespace.
// If the provider is down it exits non-zero without touching the database.
package main

import (
	"context"
	"os"
	"time"

	"nbaroster/backend/internal/cache"
	"nbaroster/backend/internal/client"
	"nbaroster/backend/internal/config"
	"nbaroster/backend/internal/ingest"
	"nbaroster/backend/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg := config.MustLoad()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.ApplySchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	appCache := cache.New(cache.Config{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer appCache.Close()

	providerClient := client.NewClient(
		cfg.ProviderBaseURL,
		cfg.ProviderAPIKey,
		cfg.ProviderTimeout,
		cfg.RosterFetchDelay,
	)

	log.Info().Strs("seasons", cfg.SeasonsToSync).Msg("Syncing roster data from external provider...")

	syncer := ingest.NewSyncer(db, appCache, providerClient, cfg.SeasonsToSync)
	summary, err := syncer.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	log.Info().Stringer("summary", summary).Msg("Sync complete")
}
