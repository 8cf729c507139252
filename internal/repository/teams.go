package repository

import (
	"context"
	"errors"
	"fmt"

	"nbaroster/backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

const teamColumns = `id, external_id, name, abbreviation, updated_at`

func scanTeam(row pgx.Row) (*models.Team, error) {
	var t models.Team
	err := row.Scan(&t.ID, &t.ExternalID, &t.Name, &t.Abbreviation, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Insert creates a new team and fills in the generated id.
func (r *TeamRepository) Insert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (external_id, name, abbreviation)
		VALUES ($1, $2, $3)
		RETURNING id, updated_at
	`

	err := r.db.q.QueryRow(ctx, query, team.ExternalID, team.Name, team.Abbreviation).
		Scan(&team.ID, &team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert team: %w", err)
	}

	log.Debug().
		Int("id", team.ID).
		Str("abbreviation", team.Abbreviation).
		Msg("Team created")

	return nil
}

// Update overwrites the mutable fields of an existing team.
func (r *TeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			external_id = $1,
			name = $2,
			abbreviation = $3,
			updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	err := r.db.q.QueryRow(ctx, query,
		team.ExternalID, team.Name, team.Abbreviation, team.ID,
	).Scan(&team.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("team id=%d: %w", team.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	return nil
}

// GetByID retrieves a team by its database ID
func (r *TeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team, err := scanTeam(r.db.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team id=%d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// GetByExternalID retrieves a team by its provider identifier.
func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE external_id = $1`

	team, err := scanTeam(r.db.q.QueryRow(ctx, query, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team external_id=%s: %w", externalID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// GetByAbbreviation retrieves a team by its abbreviation. The seed path uses
// this as its matching key.
func (r *TeamRepository) GetByAbbreviation(ctx context.Context, abbreviation string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE abbreviation = $1`

	team, err := scanTeam(r.db.q.QueryRow(ctx, query, abbreviation))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team abbreviation=%s: %w", abbreviation, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// List retrieves all teams ordered by name.
func (r *TeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY name`

	rows, err := r.db.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}
	return teams, nil
}

// MapByExternalID returns all synced teams keyed by external_id. The sync
// pipeline reloads this after the team upsert phase so newly inserted rows
// carry their generated ids into roster linking.
func (r *TeamRepository) MapByExternalID(ctx context.Context) (map[string]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE external_id IS NOT NULL`

	rows, err := r.db.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load team map: %w", err)
	}
	defer rows.Close()

	byExternal := make(map[string]*models.Team)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		byExternal[team.ExternalID.String] = team
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}
	return byExternal, nil
}

// Count returns the total number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.q.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}
