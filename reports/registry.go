package reports

import (
	"fmt"
	"strings"

	"github.com/nonsonwune/ncaafb_db/engine"
	"github.com/nonsonwune/ncaafb_db/loader"
	"github.com/nonsonwune/ncaafb_db/models"
)

// Registry is the ordered set of pages shown in the menu.
type Registry struct {
	reports []Report
}

func NewRegistry(reports ...Report) *Registry {
	return &Registry{reports: reports}
}

// Reports returns the top-level reports in menu order.
func (r *Registry) Reports() []Report {
	return append([]Report(nil), r.reports...)
}

// Lookup finds a report by id, including questions nested under a report.
func (r *Registry) Lookup(id string) (Report, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, rep := range r.reports {
		if rep.ID == id {
			return rep, true
		}
		for _, q := range rep.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Report{}, false
}

// Describe lists every runnable report with its prompt keys, one per line.
func (r *Registry) Describe() string {
	var b strings.Builder
	for _, rep := range r.reports {
		if len(rep.Questions) > 0 {
			for _, q := range rep.Questions {
				describeReport(&b, q)
			}
			continue
		}
		describeReport(&b, rep)
	}
	return b.String()
}

func describeReport(b *strings.Builder, rep Report) {
	fmt.Fprintf(b, "- %s: %s", rep.ID, rep.Title)
	if rep.Description != "" {
		fmt.Fprintf(b, " (%s)", rep.Description)
	}
	b.WriteString("\n")

	if rep.Param != nil {
		field := rep.Param.LabelField
		if field == "" {
			field = strings.Join(rep.Param.Options, "|")
		}
		fmt.Fprintf(b, "    param %s: %s [%s]\n", rep.Param.Key, rep.Param.Label, field)
	}
	for _, sec := range rep.Sections {
		for _, c := range sec.Controls {
			target := c.Field
			if len(c.Fields) > 0 {
				target = strings.Join(c.Fields, ", ")
			}
			fmt.Fprintf(b, "    %s %s: %s [%s]\n", c.Kind, c.Key, c.Label, target)
		}
	}
}

func sqlSource(name, query string) SourceFunc {
	return func(Env) loader.Source {
		return loader.Source{Name: name, SQL: query}
	}
}

// paramSource binds the report param as $1.
func paramSource(name, query string) SourceFunc {
	return func(env Env) loader.Source {
		return loader.Source{Name: name, SQL: query, Args: []any{env.Param.Interface()}}
	}
}

func rankingsSource(env Env) loader.Source {
	return loader.Source{Name: "rankings", Path: env.RankingsPath}
}

// tableSource selects every catalog column of the table named by the param.
// Unknown names produce an empty query, which the loader rejects.
func tableSource(env Env) loader.Source {
	name := env.Param.String()
	table, ok := models.Lookup(name)
	if !ok {
		return loader.Source{Name: name}
	}
	return loader.Source{Name: table.Name, SQL: table.SelectAll()}
}

// Default returns the dashboard's pages.
func Default() *Registry {
	return NewRegistry(
		homeReport(),
		teamsReport(),
		playersReport(),
		seasonsReport(),
		rankingsReport(),
		teamProfileReport(),
		venuesReport(),
		coachesReport(),
		analysisReport(),
		exploreReport(),
	)
}

func homeReport() Report {
	return Report{
		ID:    "home",
		Title: "Home Dashboard",
		Sections: []Section{
			{
				Title:  "Teams & Conferences",
				Source: sqlSource("teams", "SELECT market, name, conference_id FROM teams"),
			},
			{
				Title: "Active Players",
				Source: sqlSource("players", `
					SELECT first_name, last_name, position, status
					FROM players
					WHERE status = 'Active'
					LIMIT 50`),
			},
			{
				Title:  "Seasons",
				Source: sqlSource("seasons", "SELECT year, start_date, end_date, status FROM seasons"),
			},
		},
	}
}

func teamsReport() Report {
	return Report{
		ID:          "teams",
		Title:       "Teams Explorer",
		Description: "teams with their conference and division",
		Sections: []Section{{
			Title: "Teams",
			Source: sqlSource("teams", `
				SELECT
					t.team_id,
					t.market,
					t.name,
					t.alias,
					t.founded,
					t.championships_won,
					c.name AS conference,
					d.division_name AS division
				FROM teams t
				LEFT JOIN conferences c ON t.conference_id = c.conference_id
				LEFT JOIN divisions d ON t.division_id = d.division_id`),
			Controls: []Control{
				{Key: "conference", Label: "Conference", Kind: Select, Field: "conference"},
				{Key: "division", Label: "Division", Kind: Select, Field: "division"},
				{Key: "search", Label: "Search Team", Kind: Search, Fields: []string{"name", "market", "alias"}},
				{Key: "min_championships", Label: "Min championships", Kind: MinNumber, Field: "championships_won", Default: "0", SkipNulls: true},
			},
		}},
	}
}

func playersReport() Report {
	return Report{
		ID:          "players",
		Title:       "Players Explorer",
		Description: "players with their team name",
		Sections: []Section{{
			Title: "Players",
			Source: sqlSource("players", `
				SELECT
					p.first_name,
					p.last_name,
					p.position,
					p.height,
					p.weight,
					p.eligibility,
					p.status,
					t.name AS team_name
				FROM players p
				LEFT JOIN teams t ON p.team_id = t.team_id`),
			Controls: []Control{
				{Key: "position", Label: "Position", Kind: Select, Field: "position"},
				{Key: "status", Label: "Status", Kind: Select, Field: "status"},
				{Key: "eligibility", Label: "Eligibility", Kind: Select, Field: "eligibility"},
				{Key: "search", Label: "Search Player / Team", Kind: Search, Fields: []string{"first_name", "last_name", "team_name"}},
			},
		}},
	}
}

func seasonsReport() Report {
	return Report{
		ID:    "seasons",
		Title: "Seasons & Schedule",
		Sections: []Section{{
			Title:  "Seasons",
			Source: sqlSource("seasons", models.Seasons.SelectAll()),
			Controls: []Control{
				{Key: "year", Label: "Year", Kind: Select, Field: "year"},
				{Key: "status", Label: "Status", Kind: Select, Field: "status"},
				{Key: "type", Label: "Type", Kind: Select, Field: "type_code"},
				{Key: "start_after", Label: "Start after (YYYY-MM-DD)", Kind: DateFrom, Field: "start_date"},
			},
		}},
	}
}

func rankingsReport() Report {
	return Report{
		ID:          "rankings",
		Title:       "Team Rankings",
		Description: "poll history of one team from the rankings file",
		Param: &Param{
			Key:        "team_id",
			Label:      "Select Team ID",
			Source:     rankingsSource,
			Require:    []string{"team_id"},
			NonEmpty:   true,
			LabelField: "team_id",
			ValueField: "team_id",
			Sort:       []engine.SortKey{engine.Asc("team_id")},
		},
		Sections: []Section{{
			Title:      "Team Ranking Data",
			Source:     rankingsSource,
			Require:    []string{"team_id"},
			NonEmpty:   true,
			ParamField: "team_id",
			SortAll:    true,
		}},
	}
}

func teamProfileReport() Report {
	roster := paramSource("roster", `
		SELECT first_name, last_name, position, height, weight, eligibility, status
		FROM players
		WHERE team_id = $1
		ORDER BY position`)

	return Report{
		ID:          "team-profile",
		Title:       "Team 360° Profile",
		Description: "information, coaches, venue and roster of one team",
		Param: &Param{
			Key:        "team",
			Label:      "Select a Team",
			Source:     sqlSource("teams", "SELECT team_id, name FROM teams ORDER BY name"),
			NonEmpty:   true,
			LabelField: "name",
			ValueField: "team_id",
		},
		Sections: []Section{
			{
				Title: "Team Information",
				Source: paramSource("team", `
					SELECT
						t.name,
						t.market,
						c.name AS conference,
						d.division_name AS division
					FROM teams t
					LEFT JOIN conferences c ON t.conference_id = c.conference_id
					LEFT JOIN divisions d ON t.division_id = d.division_id
					WHERE t.team_id = $1`),
			},
			{
				Title: "Coach",
				Source: paramSource("team_coaches", `
					SELECT full_name, position
					FROM coaches
					WHERE team_id = $1`),
			},
			{
				Title: "Venue",
				Source: paramSource("venue", `
					SELECT v.name, v.city, v.state, v.capacity, v.roof_type
					FROM venues v
					JOIN teams t ON v.venue_id = t.venue_id
					WHERE t.team_id = $1`),
			},
			{
				Title:  "Roster",
				Source: roster,
			},
			{
				Title:  "Position Distribution",
				Source: roster,
				Where:  []engine.FilterSpec{engine.NotNull("position")},
				Aggregate: &engine.AggregateSpec{
					GroupBy: []string{"position"},
					Op:      engine.Count,
					As:      "player_count",
					Sort:    []engine.SortKey{engine.Desc("player_count")},
				},
				Chart: &Chart{Label: "position", Value: "player_count"},
			},
		},
	}
}

func venuesReport() Report {
	return Report{
		ID:    "venues",
		Title: "Venue Directory",
		Sections: []Section{{
			Title:  "Venues",
			Source: sqlSource("venues", models.Venues.SelectAll()),
			Controls: []Control{
				{Key: "country", Label: "Country", Kind: Select, Field: "country"},
				{Key: "state", Label: "State", Kind: Select, Field: "state"},
				{Key: "surface", Label: "Surface", Kind: Select, Field: "surface"},
				{Key: "roof_type", Label: "Roof type", Kind: Select, Field: "roof_type"},
				{Key: "min_capacity", Label: "Minimum capacity", Kind: MinNumber, Field: "capacity", Default: "0"},
				{Key: "search", Label: "Search venue or city", Kind: Search, Fields: []string{"name", "city"}},
			},
		}},
	}
}

func coachesReport() Report {
	return Report{
		ID:    "coaches",
		Title: "Coaches",
		Sections: []Section{{
			Title:  "Coaches",
			Source: sqlSource("coaches", models.Coaches.SelectAll()),
			Controls: []Control{
				{Key: "position", Label: "Position", Kind: Select, Field: "position"},
				{Key: "team_id", Label: "Team ID", Kind: Select, Field: "team_id"},
				{Key: "search", Label: "Search coach name", Kind: Search, Fields: []string{"full_name", "first_name", "last_name"}},
			},
		}},
	}
}

func analysisReport() Report {
	byTeam := []string{"team_id", "team_name"}

	return Report{
		ID:    "analysis",
		Title: "Analysis & Insights",
		Questions: []Report{
			{
				ID:    "analysis/top5",
				Title: "Which teams have maintained Top 5 rankings across multiple seasons?",
				Sections: []Section{{
					Title:   "Teams in Top 5 rankings",
					Source:  rankingsSource,
					Require: []string{"team_id", "team_name", "season", "rank"},
					Where:   []engine.FilterSpec{engine.NumericAtMost("rank", 5)},
					Aggregate: &engine.AggregateSpec{
						GroupBy: byTeam,
						Op:      engine.CountDistinct,
						Field:   "season",
						As:      "seasons_in_top5",
						Sort:    []engine.SortKey{engine.Desc("seasons_in_top5")},
					},
				}},
			},
			{
				ID:    "analysis/avg-points",
				Title: "What are the average ranking points per team by season?",
				Sections: []Section{{
					Title:   "Average ranking points per team by season",
					Source:  rankingsSource,
					Require: []string{"team_id", "team_name", "season", "points"},
					Aggregate: &engine.AggregateSpec{
						GroupBy: []string{"team_id", "team_name", "season"},
						Op:      engine.Mean,
						Field:   "points",
						As:      "avg_points",
						Sort:    []engine.SortKey{engine.Asc("team_name"), engine.Asc("season")},
					},
				}},
			},
			{
				ID:    "analysis/fp-votes",
				Title: "How many first-place votes did each team receive across weeks?",
				Sections: []Section{{
					Title:   "First-place votes by team",
					Source:  rankingsSource,
					Require: []string{"team_id", "team_name", "fp_votes"},
					Aggregate: &engine.AggregateSpec{
						GroupBy: byTeam,
						Op:      engine.Sum,
						Field:   "fp_votes",
						As:      "total_fp_votes",
						Sort:    []engine.SortKey{engine.Desc("total_fp_votes")},
					},
					Chart: &Chart{Label: "team_name", Value: "total_fp_votes"},
				}},
			},
			{
				ID:    "analysis/seasons",
				Title: "Which players have appeared in multiple seasons for the same team?",
				Sections: []Section{{
					Title:   "Teams appearing across multiple seasons",
					Source:  rankingsSource,
					Require: []string{"team_id", "team_name", "season"},
					Aggregate: &engine.AggregateSpec{
						GroupBy: byTeam,
						Op:      engine.CountDistinct,
						Field:   "season",
						As:      "num_seasons",
						Sort:    []engine.SortKey{engine.Desc("num_seasons")},
					},
				}},
			},
			{
				ID:    "analysis/positions",
				Title: "What are the most common player positions and their distribution across teams?",
				Sections: []Section{{
					Title: "Player position distribution across teams",
					Source: sqlSource("positions", `
						SELECT
							t.name AS team_name,
							p.position,
							COUNT(*) AS player_count
						FROM players p
						JOIN teams t ON p.team_id = t.team_id
						WHERE p.position IS NOT NULL
						GROUP BY t.name, p.position
						ORDER BY t.name, player_count DESC`),
				}},
			},
		},
	}
}

func exploreReport() Report {
	return Report{
		ID:          "explore",
		Title:       "Table Explorer",
		Description: "any table filtered by a boolean expression",
		Param: &Param{
			Key:     "table",
			Label:   "Table",
			Options: models.TableNames(),
		},
		Sections: []Section{{
			Title:  "Rows",
			Source: tableSource,
			Controls: []Control{
				{Key: "where", Label: `Expression (e.g. state == "TX" and roof_type != "dome")`, Kind: Expr},
			},
		}},
	}
}
