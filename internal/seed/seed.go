// Package seed loads static bootstrap datasets that lack stable external
// identifiers. It is the secondary reconciliation variant: teams match by
// abbreviation, players by (first_name, last_name), seasons by year,
// memberships by the usual triple. Every get-or-create makes the generated
// id visible within the run's single transaction for later linking.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"nbaroster/backend/internal/models"
	"nbaroster/backend/internal/repository"
)

// TeamRow is one bootstrap team record.
type TeamRow struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// PlayerRow is one bootstrap player record.
type PlayerRow struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
}

// RosterRow links bootstrap records by their natural keys.
type RosterRow struct {
	TeamAbbreviation string `json:"team_abbreviation"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	SeasonYear       int    `json:"season_year"`
}

// Data is a full bootstrap dataset.
type Data struct {
	Teams   []TeamRow
	Players []PlayerRow
	Seasons []int
	Rosters []RosterRow
}

// Result reports what a seed run did. Skipped counts roster rows whose
// referenced team, player, or season could not be resolved; those do not
// fail the run.
type Result struct {
	Teams   int
	Players int
	Seasons int
	Rosters int
	Skipped int
}

func (r Result) String() string {
	return fmt.Sprintf(
		"teams=%d players=%d seasons=%d rosters=%d skipped=%d",
		r.Teams, r.Players, r.Seasons, r.Rosters, r.Skipped,
	)
}

// Load reads a bootstrap dataset from dir, expecting teams.json,
// players.json, seasons.json, and rosters.json.
func Load(dir string) (*Data, error) {
	var data Data
	files := []struct {
		name string
		dst  any
	}{
		{"teams.json", &data.Teams},
		{"players.json", &data.Players},
		{"seasons.json", &data.Seasons},
		{"rosters.json", &data.Rosters},
	}
	for _, f := range files {
		raw, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file %s: %w", f.name, err)
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, fmt.Errorf("failed to parse seed file %s: %w", f.name, err)
		}
	}
	return &data, nil
}

// Run upserts the dataset in one transaction. Get-or-create everywhere, so
// running it twice leaves row counts unchanged.
func Run(ctx context.Context, db *repository.Database, data *Data) (Result, error) {
	var result Result

	err := db.InTx(ctx, func(tx *repository.Database) error {
		for _, row := range data.Teams {
			if _, err := getOrCreateTeam(ctx, tx, row); err != nil {
				return err
			}
			result.Teams++
		}

		for _, row := range data.Players {
			if _, err := getOrCreatePlayer(ctx, tx, row); err != nil {
				return err
			}
			result.Players++
		}

		for _, year := range data.Seasons {
			if _, err := tx.Seasons.GetOrCreate(ctx, year); err != nil {
				return err
			}
			result.Seasons++
		}

		for _, row := range data.Rosters {
			team, err := resolve(tx.Teams.GetByAbbreviation(ctx, row.TeamAbbreviation))
			if err != nil {
				return err
			}
			player, err := resolve(tx.Players.GetByName(ctx, row.FirstName, row.LastName))
			if err != nil {
				return err
			}
			season, err := resolve(tx.Seasons.GetByYear(ctx, row.SeasonYear))
			if err != nil {
				return err
			}
			if team == nil || player == nil || season == nil {
				result.Skipped++
				continue
			}

			linked, err := tx.Rosters.Exists(ctx, team.ID, player.ID, season.ID)
			if err != nil {
				return err
			}
			if !linked {
				m := &models.RosterMembership{TeamID: team.ID, PlayerID: player.ID, SeasonID: season.ID}
				if err := tx.Rosters.Insert(ctx, m); err != nil {
					return err
				}
			}
			result.Rosters++
		}

		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("seed failed: %w", err)
	}

	log.Info().Stringer("result", result).Msg("Seed complete")
	return result, nil
}

// resolve turns a not-found lookup into (nil, nil) so callers can count the
// row as skipped instead of failing the run.
func resolve[T any](v *T, err error) (*T, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func getOrCreateTeam(ctx context.Context, tx *repository.Database, row TeamRow) (*models.Team, error) {
	team, err := tx.Teams.GetByAbbreviation(ctx, row.Abbreviation)
	if err == nil {
		return team, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	team = &models.Team{Name: row.Name, Abbreviation: row.Abbreviation}
	if err := tx.Teams.Insert(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func getOrCreatePlayer(ctx context.Context, tx *repository.Database, row PlayerRow) (*models.Player, error) {
	player, err := tx.Players.GetByName(ctx, row.FirstName, row.LastName)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	player = &models.Player{
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Position:  models.NormalizePosition(row.Position),
	}
	if err := tx.Players.Insert(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}
