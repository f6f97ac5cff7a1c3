package models

import "database/sql"

// Venue represents the venues table
type Venue struct {
	ID       int64          `db:"venue_id" json:"venue_id"`
	Name     string         `db:"name" json:"name"`
	City     sql.NullString `db:"city" json:"city,omitempty"`
	State    sql.NullString `db:"state" json:"state,omitempty"`
	Country  sql.NullString `db:"country" json:"country,omitempty"`
	Surface  sql.NullString `db:"surface" json:"surface,omitempty"`
	RoofType sql.NullString `db:"roof_type" json:"roof_type,omitempty"`
	Capacity sql.NullInt64  `db:"capacity" json:"capacity,omitempty"`
}
