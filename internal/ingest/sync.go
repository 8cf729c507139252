// Package ingest implements the sync pipeline: fetch a provider snapshot,
// reconcile it against the database by stable external identifiers, and
// invalidate derived caches after commit.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"nbaroster/backend/internal/cache"
	"nbaroster/backend/internal/client"
	"nbaroster/backend/internal/metrics"
	"nbaroster/backend/internal/models"
	"nbaroster/backend/internal/repository"
)

// Summary reports what a sync run did. Operational visibility only; the
// pipeline's correctness does not depend on these counts.
type Summary struct {
	TeamsInserted   int
	TeamsUpdated    int
	PlayersInserted int
	PlayersUpdated  int
	RosterInserted  int
	RosterUnchanged int
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"teams: %d inserted, %d updated | players: %d inserted, %d updated | roster: %d inserted, %d unchanged",
		s.TeamsInserted, s.TeamsUpdated,
		s.PlayersInserted, s.PlayersUpdated,
		s.RosterInserted, s.RosterUnchanged,
	)
}

func (s Summary) record() {
	metrics.RecordSyncRows("teams", "inserted", s.TeamsInserted)
	metrics.RecordSyncRows("teams", "updated", s.TeamsUpdated)
	metrics.RecordSyncRows("players", "inserted", s.PlayersInserted)
	metrics.RecordSyncRows("players", "updated", s.PlayersUpdated)
	metrics.RecordSyncRows("roster", "inserted", s.RosterInserted)
	metrics.RecordSyncRows("roster", "unchanged", s.RosterUnchanged)
}

// Syncer runs the full fetch-reconcile-invalidate pipeline.
type Syncer struct {
	db      *repository.Database
	cache   *cache.Client
	client  *client.Client
	seasons []string
}

// NewSyncer wires a sync pipeline. seasons are the provider season labels
// to reconcile, e.g. ["2024-25", "2023-24"].
func NewSyncer(db *repository.Database, cacheClient *cache.Client, providerClient *client.Client, seasons []string) *Syncer {
	return &Syncer{
		db:      db,
		cache:   cacheClient,
		client:  providerClient,
		seasons: seasons,
	}
}

// Run executes one sync run: fetch everything, reconcile in one transaction,
// then invalidate the team cache namespace. A provider failure aborts before
// any database write; a reconciliation failure rolls everything back.
func (s *Syncer) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	snapshot, err := FetchSnapshot(ctx, s.client, s.seasons)
	if err != nil {
		metrics.RecordSync("fetch_failed", time.Since(start).Seconds())
		return Summary{}, err
	}

	summary, err := Reconcile(ctx, s.db, snapshot)
	if err != nil {
		metrics.RecordSync("failed", time.Since(start).Seconds())
		return Summary{}, err
	}

	// Invalidation happens strictly after commit. Readers between commit and
	// invalidation may see one stale response; TTL bounds the rest.
	removed := s.cache.InvalidatePrefix(ctx, cache.TeamsPrefix)

	summary.record()
	metrics.RecordSync("success", time.Since(start).Seconds())

	log.Info().
		Stringer("summary", summary).
		Int("cache_keys_removed", removed).
		Dur("duration", time.Since(start)).
		Msg("Sync run complete")

	return summary, nil
}

// Reconcile upserts a fetched snapshot into the database as a single
// transaction. Running it twice with the same snapshot inserts nothing the
// second time.
func Reconcile(ctx context.Context, db *repository.Database, snapshot *Snapshot) (Summary, error) {
	var summary Summary

	positions := snapshot.positionByPlayer()

	err := db.InTx(ctx, func(tx *repository.Database) error {
		// Teams: match by external_id, overwrite mutable fields on hit.
		existingTeams, err := tx.Teams.MapByExternalID(ctx)
		if err != nil {
			return err
		}
		for _, ext := range snapshot.Teams {
			if existing, ok := existingTeams[ext.ID]; ok {
				existing.Name = ext.Name
				existing.Abbreviation = ext.Abbreviation
				if err := tx.Teams.Update(ctx, existing); err != nil {
					return err
				}
				summary.TeamsUpdated++
			} else {
				team := &models.Team{
					ExternalID:   sql.NullString{String: ext.ID, Valid: true},
					Name:         ext.Name,
					Abbreviation: ext.Abbreviation,
				}
				if err := tx.Teams.Insert(ctx, team); err != nil {
					return err
				}
				summary.TeamsInserted++
			}
		}

		// Reload so fresh inserts carry generated ids into roster linking.
		teamsByExternal, err := tx.Teams.MapByExternalID(ctx)
		if err != nil {
			return err
		}

		// Players: same shape, with the resolved position injected.
		existingPlayers, err := tx.Players.MapByExternalID(ctx)
		if err != nil {
			return err
		}
		for _, ext := range snapshot.Players {
			position := models.NormalizePosition(positions[ext.ID])
			if existing, ok := existingPlayers[ext.ID]; ok {
				existing.FirstName = ext.FirstName
				existing.LastName = ext.LastName
				existing.Position = position
				if err := tx.Players.Update(ctx, existing); err != nil {
					return err
				}
				summary.PlayersUpdated++
			} else {
				player := &models.Player{
					ExternalID: sql.NullString{String: ext.ID, Valid: true},
					FirstName:  ext.FirstName,
					LastName:   ext.LastName,
					Position:   position,
				}
				if err := tx.Players.Insert(ctx, player); err != nil {
					return err
				}
				summary.PlayersInserted++
			}
		}

		playersByExternal, err := tx.Players.MapByExternalID(ctx)
		if err != nil {
			return err
		}

		// Seasons: get-or-create by year, deduplicating labels that map to
		// the same year within this run.
		seasonByYear := make(map[int]*models.Season)
		for _, roster := range snapshot.Rosters {
			year, err := models.SeasonYear(roster.SeasonLabel)
			if err != nil {
				return err
			}
			if _, ok := seasonByYear[year]; ok {
				continue
			}
			season, err := tx.Seasons.GetOrCreate(ctx, year)
			if err != nil {
				return err
			}
			seasonByYear[year] = season
		}

		// Roster linking: unresolved team/season/player references are data
		// outside the current sync window, not errors. Skip and move on.
		for _, roster := range snapshot.Rosters {
			team, ok := teamsByExternal[roster.TeamExternalID]
			if !ok {
				log.Debug().Str("team", roster.TeamExternalID).Msg("Skipping roster for unresolved team")
				continue
			}
			year, err := models.SeasonYear(roster.SeasonLabel)
			if err != nil {
				return err
			}
			season, ok := seasonByYear[year]
			if !ok {
				continue
			}

			for _, entry := range roster.Entries {
				player, ok := playersByExternal[entry.PlayerID]
				if !ok {
					log.Debug().Str("player", entry.PlayerID).Msg("Skipping roster entry for unresolved player")
					continue
				}

				linked, err := tx.Rosters.Exists(ctx, team.ID, player.ID, season.ID)
				if err != nil {
					return err
				}
				if linked {
					summary.RosterUnchanged++
					continue
				}
				membership := &models.RosterMembership{
					TeamID:   team.ID,
					PlayerID: player.ID,
					SeasonID: season.ID,
				}
				if err := tx.Rosters.Insert(ctx, membership); err != nil {
					return err
				}
				summary.RosterInserted++
			}
		}

		return nil
	})
	if err != nil {
		return Summary{}, fmt.Errorf("sync reconciliation failed: %w", err)
	}

	return summary, nil
}
