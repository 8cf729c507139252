package repository

import (
	"context"
	"database/sql"
	"testing"

	"nbaroster/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertPlayer(t *testing.T, db *Database, externalID, first, last, position string) *models.Player {
	t.Helper()
	p := &models.Player{
		ExternalID: sql.NullString{String: externalID, Valid: externalID != ""},
		FirstName:  first,
		LastName:   last,
		Position:   position,
	}
	require.NoError(t, db.Players.Insert(context.Background(), p))
	return p
}

func TestPlayerRepository_InsertAndGet(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	player := insertPlayer(t, db, "2544", "LeBron", "James", "SF")
	assert.NotZero(t, player.ID)

	byExternal, err := db.Players.GetByExternalID(ctx, "2544")
	require.NoError(t, err)
	assert.Equal(t, player.ID, byExternal.ID)

	byName, err := db.Players.GetByName(ctx, "LeBron", "James")
	require.NoError(t, err)
	assert.Equal(t, player.ID, byName.ID)

	_, err = db.Players.GetByName(ctx, "LeBron", "Jones")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlayerRepository_Update(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	player := insertPlayer(t, db, "203999", "Nikola", "Jokic", "C")

	player.Position = "F-C"
	require.NoError(t, db.Players.Update(ctx, player))

	updated, err := db.Players.GetByExternalID(ctx, "203999")
	require.NoError(t, err)
	assert.Equal(t, "F-C", updated.Position)

	count, err := db.Players.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPlayerRepository_ListFilters(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	curry := insertPlayer(t, db, "201939", "Stephen", "Curry", "PG")
	insertPlayer(t, db, "201142", "Kevin", "Durant", "SF")
	insertPlayer(t, db, "1629029", "Luka", "Doncic", "PG")

	// Position filter, exact match.
	players, total, err := db.Players.List(ctx, PlayerFilter{Position: "PG", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, players, 2)
	assert.Equal(t, "Doncic", players[0].LastName, "Stable sort by last name then first name")
	assert.Equal(t, "Curry", players[1].LastName)

	// Case-insensitive substring on first or last name.
	players, total, err = db.Players.List(ctx, PlayerFilter{Name: "cur", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, players, 1)
	assert.Equal(t, "Curry", players[0].LastName)

	// Team membership filter, any season.
	team := &models.Team{Name: "Golden State Warriors", Abbreviation: "GSW"}
	require.NoError(t, db.Teams.Insert(ctx, team))
	season, err := db.Seasons.GetOrCreate(ctx, 2024)
	require.NoError(t, err)
	require.NoError(t, db.Rosters.Insert(ctx, &models.RosterMembership{
		TeamID: team.ID, PlayerID: curry.ID, SeasonID: season.ID,
	}))

	players, total, err = db.Players.List(ctx, PlayerFilter{TeamID: team.ID, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, players, 1)
	assert.Equal(t, curry.ID, players[0].ID)
}

func TestPlayerRepository_Pagination(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	insertPlayer(t, db, "1", "Aaa", "Alpha", "F")
	insertPlayer(t, db, "2", "Bbb", "Bravo", "F")
	insertPlayer(t, db, "3", "Ccc", "Charlie", "F")

	players, total, err := db.Players.List(ctx, PlayerFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total, "Total is the unpaginated count")
	require.Len(t, players, 2)
	assert.Equal(t, "Alpha", players[0].LastName)

	players, total, err = db.Players.List(ctx, PlayerFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, players, 1)
	assert.Equal(t, "Charlie", players[0].LastName)
}

func TestPlayerRepository_UniqueExternalID(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	insertPlayer(t, db, "777", "First", "Player", "G")

	dup := &models.Player{
		ExternalID: sql.NullString{String: "777", Valid: true},
		FirstName:  "Second",
		LastName:   "Player",
		Position:   "G",
	}
	err := db.Players.Insert(ctx, dup)
	assert.Error(t, err, "Duplicate external_id should be rejected by the database")

	// Multiple rows with no external_id are fine.
	insertPlayer(t, db, "", "Seed", "One", "F")
	insertPlayer(t, db, "", "Seed", "Two", "F")
	count, err := db.Players.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
