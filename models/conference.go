package models

// Conference represents the conferences table
type Conference struct {
	ID   int64  `db:"conference_id" json:"conference_id"`
	Name string `db:"name" json:"name"`
}

// Division represents the divisions table
type Division struct {
	ID   int64  `db:"division_id" json:"division_id"`
	Name string `db:"division_name" json:"division_name"`
}
