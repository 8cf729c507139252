package models

// RosterMembership links one player to one team for one season.
//
// The (team_id, player_id, season_id) triple is unique. A player traded
// mid-season legitimately has memberships on two teams for the same season;
// those are two independent rows, not a conflict. Membership rows are
// insert-only: the sync pipeline never updates or deletes them.
type RosterMembership struct {
	ID       int `db:"id"`
	TeamID   int `db:"team_id"`
	PlayerID int `db:"player_id"`
	SeasonID int `db:"season_id"`
}
