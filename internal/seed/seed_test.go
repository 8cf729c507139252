package seed

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbaroster/backend/internal/repository"
)

func setupTestDB(t *testing.T) (*repository.Database, context.Context) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database integration test")
	}

	ctx := context.Background()

	db, err := repository.NewDatabase(ctx, dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.ApplySchema(ctx))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	_, err = pool.Exec(ctx, `TRUNCATE roster_memberships, players, teams, seasons RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Failed to truncate test tables")

	t.Cleanup(db.Close)
	return db, ctx
}

func testData() *Data {
	return &Data{
		Teams: []TeamRow{
			{Name: "Test Team", Abbreviation: "TT"},
			{Name: "Other Team", Abbreviation: "OT"},
		},
		Players: []PlayerRow{
			{FirstName: "Test", LastName: "Player", Position: "PG"},
			{FirstName: "Second", LastName: "Player", Position: "C"},
		},
		Seasons: []int{2024},
		Rosters: []RosterRow{
			{TeamAbbreviation: "TT", FirstName: "Test", LastName: "Player", SeasonYear: 2024},
		},
	}
}

func TestSeedRun(t *testing.T) {
	db, ctx := setupTestDB(t)

	result, err := Run(ctx, db, testData())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Teams)
	assert.Equal(t, 2, result.Players)
	assert.Equal(t, 1, result.Seasons)
	assert.Equal(t, 1, result.Rosters)
	assert.Equal(t, 0, result.Skipped)

	team, err := db.Teams.GetByAbbreviation(ctx, "TT")
	require.NoError(t, err)
	season, err := db.Seasons.GetByYear(ctx, 2024)
	require.NoError(t, err)

	roster, err := db.Rosters.PlayersForTeamSeason(ctx, team.ID, season.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "Test", roster[0].FirstName)
	assert.Equal(t, "PG", roster[0].Position)
	assert.False(t, roster[0].ExternalID.Valid, "Seeded rows carry no external id")
}

func TestSeedRunIdempotent(t *testing.T) {
	db, ctx := setupTestDB(t)

	data := testData()
	_, err := Run(ctx, db, data)
	require.NoError(t, err)

	_, err = Run(ctx, db, data)
	require.NoError(t, err)

	teams, err := db.Teams.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, teams)

	players, err := db.Players.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, players)

	memberships, err := db.Rosters.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, memberships)
}

func TestSeedDuplicateAbbreviationReusesRow(t *testing.T) {
	db, ctx := setupTestDB(t)

	data := testData()
	// A second row with the same abbreviation matches the existing team; the
	// differing name is not overwritten.
	data.Teams = append(data.Teams, TeamRow{Name: "Renamed Team", Abbreviation: "TT"})

	result, err := Run(ctx, db, data)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Teams)

	teams, err := db.Teams.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, teams)

	team, err := db.Teams.GetByAbbreviation(ctx, "TT")
	require.NoError(t, err)
	assert.Equal(t, "Test Team", team.Name)
}

func TestSeedSkipsUnresolvedRosterRows(t *testing.T) {
	db, ctx := setupTestDB(t)

	data := testData()
	data.Rosters = append(data.Rosters,
		RosterRow{TeamAbbreviation: "XX", FirstName: "Test", LastName: "Player", SeasonYear: 2024},
		RosterRow{TeamAbbreviation: "TT", FirstName: "Nobody", LastName: "Here", SeasonYear: 2024},
		RosterRow{TeamAbbreviation: "TT", FirstName: "Test", LastName: "Player", SeasonYear: 1999},
	)

	result, err := Run(ctx, db, data)
	require.NoError(t, err, "Unresolved roster rows skip, not fail")
	assert.Equal(t, 1, result.Rosters)
	assert.Equal(t, 3, result.Skipped)

	memberships, err := db.Rosters.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, memberships)
}

func TestSeedNormalizesPositions(t *testing.T) {
	db, ctx := setupTestDB(t)

	data := testData()
	data.Players = append(data.Players, PlayerRow{
		FirstName: "No", LastName: "Position", Position: "shooting guard",
	})

	_, err := Run(ctx, db, data)
	require.NoError(t, err)

	player, err := db.Players.GetByName(ctx, "No", "Position")
	require.NoError(t, err)
	assert.Equal(t, "F", player.Position)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, v any) {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), raw, 0o644))
	}
	write("teams.json", []TeamRow{{Name: "Test Team", Abbreviation: "TT"}})
	write("players.json", []PlayerRow{{FirstName: "Test", LastName: "Player", Position: "PG"}})
	write("seasons.json", []int{2024, 2023})
	write("rosters.json", []RosterRow{{TeamAbbreviation: "TT", FirstName: "Test", LastName: "Player", SeasonYear: 2024}})

	data, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, data.Teams, 1)
	assert.Len(t, data.Players, 1)
	assert.Equal(t, []int{2024, 2023}, data.Seasons)
	assert.Len(t, data.Rosters, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
