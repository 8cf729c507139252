package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nbaroster/backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db *Database
}

const playerColumns = `id, external_id, first_name, last_name, position, updated_at`

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var p models.Player
	err := row.Scan(&p.ID, &p.ExternalID, &p.FirstName, &p.LastName, &p.Position, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PlayerFilter narrows a player listing. Zero values mean "no filter".
type PlayerFilter struct {
	TeamID   int    // players with a roster membership on this team, any season
	Position string // exact match
	Name     string // case-insensitive substring on first or last name
	Limit    int
	Offset   int
}

// Insert creates a new player and fills in the generated id.
func (r *PlayerRepository) Insert(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (external_id, first_name, last_name, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, updated_at
	`

	err := r.db.q.QueryRow(ctx, query,
		player.ExternalID, player.FirstName, player.LastName, player.Position,
	).Scan(&player.ID, &player.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}

	log.Debug().
		Int("id", player.ID).
		Str("last_name", player.LastName).
		Msg("Player created")

	return nil
}

// Update overwrites the mutable fields of an existing player.
func (r *PlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET
			external_id = $1,
			first_name = $2,
			last_name = $3,
			position = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.db.q.QueryRow(ctx, query,
		player.ExternalID, player.FirstName, player.LastName, player.Position, player.ID,
	).Scan(&player.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("player id=%d: %w", player.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	return nil
}

// GetByID retrieves a player by its database ID
func (r *PlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player, err := scanPlayer(r.db.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("player id=%d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// GetByExternalID retrieves a player by its provider identifier.
func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE external_id = $1`

	player, err := scanPlayer(r.db.q.QueryRow(ctx, query, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("player external_id=%s: %w", externalID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// GetByName retrieves a player by exact (first_name, last_name). The seed
// path matches on this key; two real players sharing a name collide here,
// which is a known limitation of the bootstrap datasets.
func (r *PlayerRepository) GetByName(ctx context.Context, firstName, lastName string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE first_name = $1 AND last_name = $2`

	player, err := scanPlayer(r.db.q.QueryRow(ctx, query, firstName, lastName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("player %s %s: %w", firstName, lastName, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// List retrieves players matching the filter plus the unpaginated total,
// ordered by last name then first name.
func (r *PlayerRepository) List(ctx context.Context, filter PlayerFilter) ([]*models.Player, int, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.TeamID != 0 {
		conds = append(conds, fmt.Sprintf(
			`id IN (SELECT DISTINCT player_id FROM roster_memberships WHERE team_id = %s)`,
			arg(filter.TeamID),
		))
	}
	if pos := strings.TrimSpace(filter.Position); pos != "" {
		conds = append(conds, `position = `+arg(pos))
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		pattern := "%" + name + "%"
		p := arg(pattern)
		conds = append(conds, fmt.Sprintf(`(first_name ILIKE %s OR last_name ILIKE %s)`, p, p))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM players` + where
	if err := r.db.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count players: %w", err)
	}

	query := `SELECT ` + playerColumns + ` FROM players` + where +
		` ORDER BY last_name, first_name` +
		` LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset)

	rows, err := r.db.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating players: %w", err)
	}
	return players, total, nil
}

// MapByExternalID returns all synced players keyed by external_id, reloaded
// by the sync pipeline after the player upsert phase.
func (r *PlayerRepository) MapByExternalID(ctx context.Context) (map[string]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE external_id IS NOT NULL`

	rows, err := r.db.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load player map: %w", err)
	}
	defer rows.Close()

	byExternal := make(map[string]*models.Player)
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		byExternal[player.ExternalID.String] = player
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return byExternal, nil
}

// Count returns the total number of players
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.q.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}
