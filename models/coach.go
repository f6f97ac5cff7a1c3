package models

import "database/sql"

// Coach represents the coaches table
type Coach struct {
	FullName  string         `db:"full_name" json:"full_name"`
	FirstName sql.NullString `db:"first_name" json:"first_name,omitempty"`
	LastName  sql.NullString `db:"last_name" json:"last_name,omitempty"`
	Position  sql.NullString `db:"position" json:"position,omitempty"`
	TeamID    sql.NullInt64  `db:"team_id" json:"team_id,omitempty"`
}
