package models

import "database/sql"

// Season represents the seasons table
type Season struct {
	Year      int64          `db:"year" json:"year"`
	StartDate sql.NullTime   `db:"start_date" json:"start_date,omitempty"`
	EndDate   sql.NullTime   `db:"end_date" json:"end_date,omitempty"`
	Status    sql.NullString `db:"status" json:"status,omitempty"`
	TypeCode  sql.NullString `db:"type_code" json:"type_code,omitempty"`
}
