package cache

import "fmt"

// Key design: every key fully encodes the query shape that produced the
// value. List and per-entity lookups live in disjoint namespaces, and any
// dimension that changes the result (team, season) is embedded in the key so
// two seasons can never collide on one entry.

// TeamsPrefix covers every team-derived key; the sync pipeline invalidates
// this whole namespace after each committed run.
const TeamsPrefix = "teams:"

// TeamsListKey caches the full team list.
const TeamsListKey = TeamsPrefix + "list"

// RosterKey caches the roster of one team for one season year.
func RosterKey(teamID, seasonYear int) string {
	return fmt.Sprintf("%s%d:roster:%d", TeamsPrefix, teamID, seasonYear)
}
