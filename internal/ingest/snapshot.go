package ingest

import (
	"context"

	"github.com/rs/zerolog/log"

	"nbaroster/backend/internal/client"
)

// TeamRoster is the roster of one team for one season label, as fetched.
type TeamRoster struct {
	TeamExternalID string
	SeasonLabel    string
	Entries        []client.RosterEntry
}

// Snapshot is a fully-fetched copy of the provider's state for the seasons
// being synced. All network I/O finishes before reconciliation touches the
// database, so a mid-fetch provider failure leaves storage untouched.
type Snapshot struct {
	Teams   []client.ExternalTeam
	Players []client.ExternalPlayer
	Rosters []TeamRoster
}

// FetchSnapshot pulls teams, players, and every (team, season) roster from
// the provider. Any fetch failure aborts immediately; nothing is retried.
func FetchSnapshot(ctx context.Context, c *client.Client, seasons []string) (*Snapshot, error) {
	teams, err := c.FetchTeams(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Int("count", len(teams)).Msg("Teams fetched")

	players, err := c.FetchPlayers(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Int("count", len(players)).Msg("Players fetched")

	var rosters []TeamRoster
	for _, team := range teams {
		for _, season := range seasons {
			entries, err := c.FetchRoster(ctx, team.ID, season)
			if err != nil {
				return nil, err
			}
			rosters = append(rosters, TeamRoster{
				TeamExternalID: team.ID,
				SeasonLabel:    season,
				Entries:        entries,
			})
		}
	}
	log.Info().Int("count", len(rosters)).Msg("Rosters fetched")

	return &Snapshot{Teams: teams, Players: players, Rosters: rosters}, nil
}

// positionByPlayer builds the external player id -> position mapping from
// all roster entries in fetch order. A later entry for the same player wins,
// so a player listed with different positions across teams or seasons ends
// up with the last one scanned.
func (s *Snapshot) positionByPlayer() map[string]string {
	positions := make(map[string]string)
	for _, roster := range s.Rosters {
		for _, entry := range roster.Entries {
			if entry.PlayerID == "" {
				continue
			}
			positions[entry.PlayerID] = entry.Position
		}
	}
	return positions
}
