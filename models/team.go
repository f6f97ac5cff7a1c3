package models

import "database/sql"

// Team represents the teams table
type Team struct {
	ID               int64          `db:"team_id" json:"team_id"`
	Market           string         `db:"market" json:"market"`
	Name             string         `db:"name" json:"name"`
	Alias            sql.NullString `db:"alias" json:"alias,omitempty"`
	Founded          sql.NullInt64  `db:"founded" json:"founded,omitempty"`
	ChampionshipsWon sql.NullInt64  `db:"championships_won" json:"championships_won,omitempty"`
	ConferenceID     sql.NullInt64  `db:"conference_id" json:"conference_id,omitempty"`
	DivisionID       sql.NullInt64  `db:"division_id" json:"division_id,omitempty"`
	VenueID          sql.NullInt64  `db:"venue_id" json:"venue_id,omitempty"`
}
