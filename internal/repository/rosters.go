package repository

import (
	"context"
	"fmt"

	"nbaroster/backend/internal/models"
)

// RosterRepository handles roster membership database operations.
// Membership rows are insert-only; nothing here updates or deletes them.
type RosterRepository struct {
	db *Database
}

// Exists reports whether the (team, player, season) triple is already linked.
func (r *RosterRepository) Exists(ctx context.Context, teamID, playerID, seasonID int) (bool, error) {
	var exists bool
	err := r.db.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM roster_memberships
			WHERE team_id = $1 AND player_id = $2 AND season_id = $3
		)`, teamID, playerID, seasonID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check roster membership: %w", err)
	}
	return exists, nil
}

// Insert links a player to a team for a season. The unique constraint on the
// triple rejects duplicates the application-level Exists check raced past.
func (r *RosterRepository) Insert(ctx context.Context, m *models.RosterMembership) error {
	err := r.db.q.QueryRow(ctx, `
		INSERT INTO roster_memberships (team_id, player_id, season_id)
		VALUES ($1, $2, $3)
		RETURNING id`, m.TeamID, m.PlayerID, m.SeasonID,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to insert roster membership: %w", err)
	}
	return nil
}

// PlayersForTeamSeason returns the roster for a team in a season, ordered by
// last name then first name.
func (r *RosterRepository) PlayersForTeamSeason(ctx context.Context, teamID, seasonID int) ([]*models.Player, error) {
	query := `
		SELECT p.id, p.external_id, p.first_name, p.last_name, p.position, p.updated_at
		FROM players p
		JOIN roster_memberships rm ON rm.player_id = p.id
		WHERE rm.team_id = $1 AND rm.season_id = $2
		ORDER BY p.last_name, p.first_name
	`

	rows, err := r.db.q.Query(ctx, query, teamID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roster player: %w", err)
		}
		players = append(players, player)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster: %w", err)
	}
	return players, nil
}

// Count returns the total number of roster memberships
func (r *RosterRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.q.QueryRow(ctx, `SELECT COUNT(*) FROM roster_memberships`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count roster memberships: %w", err)
	}
	return count, nil
}
