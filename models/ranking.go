package models

import "database/sql"

// Ranking is one row of the rankings file. It is not a database table.
type Ranking struct {
	TeamID   int64           `db:"team_id" json:"team_id"`
	TeamName string          `db:"team_name" json:"team_name"`
	Season   int64           `db:"season" json:"season"`
	Rank     sql.NullInt64   `db:"rank" json:"rank,omitempty"`
	Points   sql.NullFloat64 `db:"points" json:"points,omitempty"`
	FPVotes  sql.NullInt64   `db:"fp_votes" json:"fp_votes,omitempty"`
}
