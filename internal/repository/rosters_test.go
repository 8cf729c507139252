package repository

import (
	"context"
	"testing"

	"nbaroster/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rosterFixture creates a team, two players, and a season for linking tests.
func rosterFixture(t *testing.T, db *Database) (team *models.Team, players []*models.Player, season *models.Season) {
	t.Helper()
	ctx := context.Background()

	team = &models.Team{Name: "Test Team", Abbreviation: "TT"}
	require.NoError(t, db.Teams.Insert(ctx, team))

	players = []*models.Player{
		{FirstName: "Test", LastName: "Player", Position: "PG"},
		{FirstName: "Another", LastName: "Guard", Position: "SG"},
	}
	for _, p := range players {
		require.NoError(t, db.Players.Insert(ctx, p))
	}

	var err error
	season, err = db.Seasons.GetOrCreate(ctx, 2024)
	require.NoError(t, err)
	return team, players, season
}

func TestRosterRepository_InsertAndExists(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team, players, season := rosterFixture(t, db)

	exists, err := db.Rosters.Exists(ctx, team.ID, players[0].ID, season.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	m := &models.RosterMembership{TeamID: team.ID, PlayerID: players[0].ID, SeasonID: season.ID}
	require.NoError(t, db.Rosters.Insert(ctx, m))
	assert.NotZero(t, m.ID)

	exists, err = db.Rosters.Exists(ctx, team.ID, players[0].ID, season.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRosterRepository_UniqueTriple(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team, players, season := rosterFixture(t, db)

	m := &models.RosterMembership{TeamID: team.ID, PlayerID: players[0].ID, SeasonID: season.ID}
	require.NoError(t, db.Rosters.Insert(ctx, m))

	dup := &models.RosterMembership{TeamID: team.ID, PlayerID: players[0].ID, SeasonID: season.ID}
	err := db.Rosters.Insert(ctx, dup)
	assert.Error(t, err, "Duplicate (team, player, season) should be rejected by the database")

	// Same player, same season, different team is two independent memberships.
	other := &models.Team{Name: "Other Team", Abbreviation: "OT"}
	require.NoError(t, db.Teams.Insert(ctx, other))
	traded := &models.RosterMembership{TeamID: other.ID, PlayerID: players[0].ID, SeasonID: season.ID}
	assert.NoError(t, db.Rosters.Insert(ctx, traded))
}

func TestRosterRepository_ForeignKeys(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team, players, season := rosterFixture(t, db)

	m := &models.RosterMembership{TeamID: team.ID, PlayerID: 99999, SeasonID: season.ID}
	err := db.Rosters.Insert(ctx, m)
	assert.Error(t, err, "Membership referencing a missing player should be rejected")

	m = &models.RosterMembership{TeamID: 99999, PlayerID: players[0].ID, SeasonID: season.ID}
	err = db.Rosters.Insert(ctx, m)
	assert.Error(t, err, "Membership referencing a missing team should be rejected")
}

func TestRosterRepository_PlayersForTeamSeason(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team, players, season := rosterFixture(t, db)
	for _, p := range players {
		require.NoError(t, db.Rosters.Insert(ctx, &models.RosterMembership{
			TeamID: team.ID, PlayerID: p.ID, SeasonID: season.ID,
		}))
	}

	// A membership in another season must not leak into this one.
	other, err := db.Seasons.GetOrCreate(ctx, 2023)
	require.NoError(t, err)
	require.NoError(t, db.Rosters.Insert(ctx, &models.RosterMembership{
		TeamID: team.ID, PlayerID: players[0].ID, SeasonID: other.ID,
	}))

	roster, err := db.Rosters.PlayersForTeamSeason(ctx, team.ID, season.ID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Guard", roster[0].LastName, "Roster ordered by last name then first name")
	assert.Equal(t, "Player", roster[1].LastName)

	roster, err = db.Rosters.PlayersForTeamSeason(ctx, team.ID, other.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, players[0].ID, roster[0].ID)
}
