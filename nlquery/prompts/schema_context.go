package prompts

import (
	"fmt"
	"strings"

	"github.com/nonsonwune/ncaafb_db/models"
)

// SchemaContext describes the data behind the reports.
func SchemaContext() string {
	var b strings.Builder
	b.WriteString("Data available to the reports:\n")
	for _, t := range models.Tables() {
		fmt.Fprintf(&b, "   - table %s: %s\n", t.Name, strings.Join(t.Columns, ", "))
	}
	fmt.Fprintf(&b, "   - rankings file (weekly polls): %s\n", strings.Join(models.RankingsFile.Columns, ", "))
	b.WriteString(`
Relationships:
   - teams.conference_id -> conferences.conference_id
   - teams.division_id -> divisions.division_id
   - teams.venue_id -> venues.venue_id
   - players.team_id and coaches.team_id -> teams.team_id
   - rankings team_id matches teams.team_id
`)
	return b.String()
}
