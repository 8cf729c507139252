package models

import (
	"database/sql"
	"time"
)

// Team represents an NBA franchise.
//
// ExternalID is the stable identifier issued by the external data provider
// and is used to match fetched records to existing rows across sync runs.
// It is null for rows created through the seed path until the first sync
// matches them. Abbreviation is unique independently of external_id so the
// seed path cannot create duplicates either.
type Team struct {
	ID           int            `db:"id"`
	ExternalID   sql.NullString `db:"external_id"`
	Name         string         `db:"name"`
	Abbreviation string         `db:"abbreviation"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
