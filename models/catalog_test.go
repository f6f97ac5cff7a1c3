package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableColumnsFollowTags(t *testing.T) {
	assert.Equal(t, []string{"team_id", "team_name", "season", "rank", "points", "fp_votes"}, RankingsFile.Columns)
	assert.Equal(t, []string{"division_id", "division_name"}, Divisions.Columns)
	assert.Contains(t, Venues.Columns, "roof_type")
	assert.Contains(t, Teams.Columns, "championships_won")
}

func TestLookup(t *testing.T) {
	venues, ok := Lookup("venues")
	require.True(t, ok)
	assert.Equal(t, "SELECT venue_id, name, city, state, country, surface, roof_type, capacity FROM venues", venues.SelectAll())

	_, ok = Lookup("rankings")
	assert.False(t, ok, "the rankings file is not a database table")

	_, ok = Lookup("teams; DROP TABLE teams")
	assert.False(t, ok)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t,
		[]string{"teams", "players", "seasons", "venues", "coaches", "conferences", "divisions"},
		TableNames(),
	)
}
