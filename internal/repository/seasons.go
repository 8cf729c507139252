package repository

import (
	"context"
	"errors"
	"fmt"

	"nbaroster/backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// SeasonRepository handles season database operations
type SeasonRepository struct {
	db *Database
}

// GetByYear retrieves a season by its year.
func (r *SeasonRepository) GetByYear(ctx context.Context, year int) (*models.Season, error) {
	var s models.Season
	err := r.db.q.QueryRow(ctx, `SELECT id, year FROM seasons WHERE year = $1`, year).
		Scan(&s.ID, &s.Year)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("season year=%d: %w", year, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season: %w", err)
	}
	return &s, nil
}

// Insert creates a new season and fills in the generated id.
func (r *SeasonRepository) Insert(ctx context.Context, season *models.Season) error {
	err := r.db.q.QueryRow(ctx,
		`INSERT INTO seasons (year) VALUES ($1) RETURNING id`, season.Year,
	).Scan(&season.ID)
	if err != nil {
		return fmt.Errorf("failed to insert season: %w", err)
	}
	return nil
}

// GetOrCreate returns the season for year, inserting it if absent. The
// generated id is visible immediately within the enclosing transaction.
func (r *SeasonRepository) GetOrCreate(ctx context.Context, year int) (*models.Season, error) {
	season, err := r.GetByYear(ctx, year)
	if err == nil {
		return season, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	season = &models.Season{Year: year}
	if err := r.Insert(ctx, season); err != nil {
		return nil, err
	}
	return season, nil
}

// Count returns the total number of seasons
func (r *SeasonRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.q.QueryRow(ctx, `SELECT COUNT(*) FROM seasons`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count seasons: %w", err)
	}
	return count, nil
}
