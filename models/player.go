package models

import "database/sql"

// Player represents the players table
type Player struct {
	FirstName   string         `db:"first_name" json:"first_name"`
	LastName    string         `db:"last_name" json:"last_name"`
	Position    sql.NullString `db:"position" json:"position,omitempty"`
	Height      sql.NullInt64  `db:"height" json:"height,omitempty"`
	Weight      sql.NullInt64  `db:"weight" json:"weight,omitempty"`
	Eligibility sql.NullString `db:"eligibility" json:"eligibility,omitempty"`
	Status      sql.NullString `db:"status" json:"status,omitempty"`
	TeamID      sql.NullInt64  `db:"team_id" json:"team_id,omitempty"`
}
