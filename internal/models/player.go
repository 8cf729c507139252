package models

import (
	"database/sql"
	"strings"
	"time"
)

// DefaultPosition is stored when the provider never reports a position for a
// player in any fetched roster.
const DefaultPosition = "F"

// validPositions is the set of positions the provider reports, including the
// hybrid forms ("G-F" etc.) that appear on real rosters.
var validPositions = map[string]struct{}{
	"PG": {}, "SG": {}, "SF": {}, "PF": {}, "C": {},
	"G": {}, "F": {},
	"G-F": {}, "F-G": {}, "F-C": {}, "C-F": {},
}

// Player represents an NBA player.
//
// ExternalID follows the same matching rules as Team.ExternalID. The seed
// path matches players by (first_name, last_name) instead, which has no
// uniqueness constraint at the storage level.
type Player struct {
	ID         int            `db:"id"`
	ExternalID sql.NullString `db:"external_id"`
	FirstName  string         `db:"first_name"`
	LastName   string         `db:"last_name"`
	Position   string         `db:"position"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// NormalizePosition maps a provider-reported position onto the stored enum,
// falling back to DefaultPosition for empty or unrecognized values.
func NormalizePosition(raw string) string {
	pos := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := validPositions[pos]; ok {
		return pos
	}
	return DefaultPosition
}
