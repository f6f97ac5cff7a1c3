package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/ncaafb_db/dataset"
	"github.com/nonsonwune/ncaafb_db/loader"
)

type fakeLoader struct {
	sources map[string]*dataset.Dataset
	calls   []loader.Source
}

func (f *fakeLoader) Load(ctx context.Context, src loader.Source) (*dataset.Dataset, error) {
	f.calls = append(f.calls, src)
	ds, ok := f.sources[src.Name]
	if !ok {
		return nil, dataset.LoadErr("could not run query", map[string]any{"source": src.Name})
	}
	return ds, nil
}

func (f *fakeLoader) call(name string) (loader.Source, bool) {
	for _, c := range f.calls {
		if c.Name == name {
			return c, true
		}
	}
	return loader.Source{}, false
}

func table(t *testing.T, columns []string, rows ...[]any) *dataset.Dataset {
	t.Helper()
	out := make([]dataset.Row, len(rows))
	for i, r := range rows {
		row := make(dataset.Row, len(r))
		for j, v := range r {
			row[j] = dataset.FromAny(v)
		}
		out[i] = row
	}
	ds, err := dataset.New(columns, out)
	require.NoError(t, err)
	return ds
}

func column(t *testing.T, ds *dataset.Dataset, name string) []string {
	t.Helper()
	out := []string{}
	for i := 0; i < ds.Len(); i++ {
		v, ok := ds.Value(i, name)
		require.True(t, ok, name)
		out = append(out, v.String())
	}
	return out
}

func fixtures(t *testing.T) map[string]*dataset.Dataset {
	teams := table(t,
		[]string{"team_id", "market", "name", "alias", "founded", "championships_won", "conference", "division", "conference_id"},
		[]any{1, "Tuscaloosa", "Alabama", "Crimson Tide", 1892, 18, "SEC", "FBS", 10},
		[]any{2, "Athens", "Georgia", "Bulldogs", 1892, 4, "SEC", "FBS", 10},
		[]any{3, "Columbus", "Ohio State", "Buckeyes", 1890, 8, "Big Ten", "FBS", 11},
		[]any{4, "Bozeman", "Montana State", nil, 1897, nil, nil, "FCS", nil},
	)
	players := table(t,
		[]string{"first_name", "last_name", "position", "height", "weight", "eligibility", "status", "team_name"},
		[]any{"Bryce", "Young", "QB", 72, 194, "JR", "Active", "Alabama"},
		[]any{"Stetson", "Bennett", "QB", 71, 190, "SR", "Active", "Georgia"},
		[]any{"Brock", "Bowers", "TE", 76, 230, "SO", "Active", "Georgia"},
		[]any{"Will", "Anderson", "LB", 76, 243, "JR", "Injured", "Alabama"},
	)
	roster := table(t,
		[]string{"first_name", "last_name", "position", "height", "weight", "eligibility", "status"},
		[]any{"Brock", "Bowers", "TE", 76, 230, "SO", "Active"},
		[]any{"Stetson", "Bennett", "QB", 71, 190, "SR", "Active"},
		[]any{"Carson", "Beck", "QB", 76, 220, "JR", "Active"},
		[]any{"Kirby", "Walk-On", nil, 70, 180, "FR", "Active"},
	)
	seasons := table(t,
		[]string{"year", "start_date", "end_date", "status", "type_code"},
		[]any{2021, "2021-08-28", "2022-01-10", "closed", "REG"},
		[]any{2022, "2022-08-27", "2023-01-09", "closed", "REG"},
		[]any{2023, "2023-08-26", nil, "inprogress", "REG"},
	)
	venues := table(t,
		[]string{"venue_id", "name", "city", "state", "country", "surface", "roof_type", "capacity"},
		[]any{1, "Bryant-Denny Stadium", "Tuscaloosa", "AL", "USA", "turf", "outdoor", 100077},
		[]any{2, "Sanford Stadium", "Athens", "GA", "USA", "turf", "outdoor", 92746},
		[]any{3, "Caesars Superdome", "New Orleans", "LA", "USA", "artificial", "dome", 73208},
		[]any{4, "Practice Field", "Athens", "GA", "USA", "turf", "outdoor", nil},
	)
	coaches := table(t,
		[]string{"full_name", "first_name", "last_name", "position", "team_id"},
		[]any{"Nick Saban", "Nick", "Saban", "HC", 1},
		[]any{"Kirby Smart", "Kirby", "Smart", "HC", 2},
		[]any{"Todd Monken", "Todd", "Monken", "OC", 2},
	)
	rankings := table(t,
		[]string{"team_id", "team_name", "season", "rank", "points", "fp_votes"},
		[]any{2, "Georgia", 2022, 1, nil, 55},
		[]any{1, "Alabama", 2022, 4, 1300, 10},
		[]any{1, "Alabama", 2021, 1, 1500, 50},
		[]any{2, "Georgia", 2021, 2, 1450, nil},
		[]any{3, "Ohio State", 2021, 7, 900, 0},
		[]any{1, "Alabama", 2022, 3, 1350, 2},
	)
	positions := table(t,
		[]string{"team_name", "position", "player_count"},
		[]any{"Alabama", "QB", 3},
		[]any{"Georgia", "TE", 2},
	)
	team := table(t,
		[]string{"name", "market", "conference", "division"},
		[]any{"Georgia", "Athens", "SEC", "FBS"},
	)
	venue := table(t,
		[]string{"name", "city", "state", "capacity", "roof_type"},
		[]any{"Sanford Stadium", "Athens", "GA", 92746, "outdoor"},
	)
	teamCoaches := table(t,
		[]string{"full_name", "position"},
		[]any{"Kirby Smart", "HC"},
	)

	return map[string]*dataset.Dataset{
		"teams":        teams,
		"players":      players,
		"roster":       roster,
		"seasons":      seasons,
		"venues":       venues,
		"coaches":      coaches,
		"rankings":     rankings,
		"positions":    positions,
		"team":         team,
		"team_coaches": teamCoaches,
		"venue":        venue,
	}
}

func newRunner(t *testing.T) (*Runner, *fakeLoader) {
	ld := &fakeLoader{sources: fixtures(t)}
	return NewRunner(ld, "testdata/rankings.csv"), ld
}

func run(t *testing.T, id string, ch Chooser) ([]Result, *fakeLoader) {
	t.Helper()
	rep, ok := Default().Lookup(id)
	require.True(t, ok, id)
	r, ld := newRunner(t)
	results, err := r.Run(context.Background(), rep, ch)
	require.NoError(t, err)
	return results, ld
}

func TestEveryReportRunsWithDefaults(t *testing.T) {
	for _, rep := range Default().Reports() {
		ids := []string{rep.ID}
		for _, q := range rep.Questions {
			ids = append(ids, q.ID)
		}
		for _, id := range ids {
			t.Run(id, func(t *testing.T) {
				results, _ := run(t, id, Preset{})
				assert.NotEmpty(t, results)
				for _, res := range results {
					assert.NotNil(t, res.Data, res.Title)
				}
			})
		}
	}
}

func TestTeamsReport(t *testing.T) {
	tests := []struct {
		desc   string
		preset Preset
		want   []string
	}{
		{
			desc:   "defaults drop teams without a championships count",
			preset: Preset{},
			want:   []string{"Alabama", "Georgia", "Ohio State"},
		},
		{
			desc:   "conference and minimum championships",
			preset: Preset{"conference": "sec", "min_championships": "5"},
			want:   []string{"Alabama"},
		},
		{
			desc:   "search matches alias",
			preset: Preset{"search": "BUCK"},
			want:   []string{"Ohio State"},
		},
		{
			desc:   "division",
			preset: Preset{"division": "FCS"},
			want:   []string{},
		},
		{
			desc:   "conference",
			preset: Preset{"conference": "Big Ten"},
			want:   []string{"Ohio State"},
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			results, _ := run(t, "teams", test.preset)
			require.Len(t, results, 1)
			assert.Equal(t, test.want, column(t, results[0].Data, "name"))
		})
	}
}

func TestPlayersReport(t *testing.T) {
	results, _ := run(t, "players", Preset{"position": "QB", "search": "georgia"})
	assert.Equal(t, []string{"Bennett"}, column(t, results[0].Data, "last_name"))

	results, _ = run(t, "players", Preset{"status": "Injured"})
	assert.Equal(t, []string{"Anderson"}, column(t, results[0].Data, "last_name"))
}

func TestSeasonsReport(t *testing.T) {
	results, _ := run(t, "seasons", Preset{"start_after": "2022-01-01"})
	assert.Equal(t, []string{"2022", "2023"}, column(t, results[0].Data, "year"))

	results, _ = run(t, "seasons", Preset{"year": "2021"})
	assert.Equal(t, []string{"2021"}, column(t, results[0].Data, "year"))
}

func TestVenuesReport(t *testing.T) {
	results, _ := run(t, "venues", Preset{"state": "GA"})
	assert.Equal(t, []string{"Sanford Stadium", "Practice Field"}, column(t, results[0].Data, "name"))

	results, _ = run(t, "venues", Preset{"state": "GA", "min_capacity": "1"})
	assert.Equal(t, []string{"Sanford Stadium"}, column(t, results[0].Data, "name"))

	results, _ = run(t, "venues", Preset{"search": "orleans", "roof_type": "dome"})
	assert.Equal(t, []string{"Caesars Superdome"}, column(t, results[0].Data, "name"))
}

func TestCoachesReport(t *testing.T) {
	results, _ := run(t, "coaches", Preset{"team_id": "2"})
	assert.Equal(t, []string{"Kirby Smart", "Todd Monken"}, column(t, results[0].Data, "full_name"))

	results, _ = run(t, "coaches", Preset{"position": "HC", "search": "saban"})
	assert.Equal(t, []string{"Nick Saban"}, column(t, results[0].Data, "full_name"))
}

func TestRankingsReport(t *testing.T) {
	results, ld := run(t, "rankings", Preset{"team_id": "1"})
	require.Len(t, results, 1)

	data := results[0].Data
	assert.Equal(t, []string{"1", "1", "1"}, column(t, data, "team_id"))
	assert.Equal(t, []string{"2021", "2022", "2022"}, column(t, data, "season"))
	assert.Equal(t, []string{"1", "3", "4"}, column(t, data, "rank"))

	src, ok := ld.call("rankings")
	require.True(t, ok)
	assert.True(t, src.IsFile())
	assert.Equal(t, "testdata/rankings.csv", src.Path)
}

func TestRankingsReportDefaultsToFirstTeam(t *testing.T) {
	results, _ := run(t, "rankings", Preset{})
	assert.Equal(t, []string{"1", "1", "1"}, column(t, results[0].Data, "team_id"))
}

func TestRankingsReportErrors(t *testing.T) {
	rep, _ := Default().Lookup("rankings")

	empty := &fakeLoader{sources: map[string]*dataset.Dataset{
		"rankings": table(t, []string{"team_id", "team_name"}),
	}}
	_, err := NewRunner(empty, "rankings.csv").Run(context.Background(), rep, Preset{})
	require.Error(t, err)
	assert.True(t, dataset.ErrIs(err, dataset.LoadErrCode))

	noTeamID := &fakeLoader{sources: map[string]*dataset.Dataset{
		"rankings": table(t, []string{"team", "season"}, []any{"Alabama", 2021}),
	}}
	_, err = NewRunner(noTeamID, "rankings.csv").Run(context.Background(), rep, Preset{})
	require.Error(t, err)
	assert.True(t, dataset.ErrIs(err, dataset.SchemaErrCode))

	_, err = NewRunner(&fakeLoader{sources: fixtures(t)}, "rankings.csv").Run(context.Background(), rep, Preset{"team_id": "99"})
	require.Error(t, err)
	assert.True(t, dataset.ErrIs(err, dataset.SpecErrCode))
}

func TestTeamProfileReport(t *testing.T) {
	results, ld := run(t, "team-profile", Preset{"team": "georgia"})
	require.Len(t, results, 5)

	titles := make([]string, len(results))
	for i, res := range results {
		titles[i] = res.Title
	}
	assert.Equal(t, []string{"Team Information", "Coach", "Venue", "Roster", "Position Distribution"}, titles)

	for _, name := range []string{"team", "team_coaches", "venue", "roster"} {
		src, ok := ld.call(name)
		require.True(t, ok, name)
		assert.Equal(t, []any{int64(2)}, src.Args, name)
		assert.Contains(t, src.SQL, "$1", name)
	}

	dist := results[4]
	require.NotNil(t, dist.Chart)
	assert.Equal(t, "position", dist.Chart.Label)
	assert.Equal(t, []string{"QB", "TE"}, column(t, dist.Data, "position"), "players without a position are left out")
	assert.Equal(t, []string{"2", "1"}, column(t, dist.Data, "player_count"))
}

func TestAnalysisQuestions(t *testing.T) {
	tests := []struct {
		id     string
		as     string
		teams  []string
		values []string
	}{
		{
			id:     "analysis/top5",
			as:     "seasons_in_top5",
			teams:  []string{"Georgia", "Alabama"},
			values: []string{"2", "2"},
		},
		{
			id:     "analysis/avg-points",
			as:     "avg_points",
			teams:  []string{"Alabama", "Alabama", "Georgia", "Georgia", "Ohio State"},
			values: []string{"1500", "1325", "1450", "", "900"},
		},
		{
			id:     "analysis/fp-votes",
			as:     "total_fp_votes",
			teams:  []string{"Alabama", "Georgia", "Ohio State"},
			values: []string{"62", "55", "0"},
		},
		{
			id:     "analysis/seasons",
			as:     "num_seasons",
			teams:  []string{"Georgia", "Alabama", "Ohio State"},
			values: []string{"2", "2", "1"},
		},
	}

	for _, test := range tests {
		t.Run(test.id, func(t *testing.T) {
			results, _ := run(t, test.id, Preset{})
			require.Len(t, results, 1)
			assert.Equal(t, test.teams, column(t, results[0].Data, "team_name"))
			assert.Equal(t, test.values, column(t, results[0].Data, test.as))
		})
	}
}

func TestAnalysisPicksQuestionByTitle(t *testing.T) {
	results, _ := run(t, "analysis", Preset{
		QuestionKey: "how many first-place votes did each team receive across weeks?",
	})
	require.Len(t, results, 1)
	assert.Equal(t, "First-place votes by team", results[0].Title)

	results, _ = run(t, "analysis", Preset{})
	assert.Equal(t, "Teams in Top 5 rankings", results[0].Title)
}

func TestExploreReport(t *testing.T) {
	results, ld := run(t, "explore", Preset{"table": "venues", "where": `state == "GA" and roof_type == "outdoor"`})
	assert.Equal(t, []string{"Sanford Stadium", "Practice Field"}, column(t, results[0].Data, "name"))

	src, ok := ld.call("venues")
	require.True(t, ok)
	assert.Contains(t, src.SQL, "FROM venues")
}

func TestControlInputErrors(t *testing.T) {
	tests := []struct {
		desc   string
		id     string
		preset Preset
		code   string
	}{
		{desc: "minimum is not a number", id: "venues", preset: Preset{"min_capacity": "lots"}, code: dataset.ParseErrCode},
		{desc: "date is not a date", id: "seasons", preset: Preset{"start_after": "last week"}, code: dataset.ParseErrCode},
		{desc: "choice not offered", id: "venues", preset: Preset{"state": "ZZ"}, code: dataset.SpecErrCode},
		{desc: "malformed expression", id: "explore", preset: Preset{"where": "state =="}, code: dataset.SpecErrCode},
		{desc: "unknown table", id: "explore", preset: Preset{"table": "users"}, code: dataset.SpecErrCode},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			rep, ok := Default().Lookup(test.id)
			require.True(t, ok)
			r, _ := newRunner(t)
			_, err := r.Run(context.Background(), rep, test.preset)
			require.Error(t, err)
			assert.True(t, dataset.ErrIs(err, test.code), err.Error())
		})
	}
}

func TestLoadFailureAbortsRun(t *testing.T) {
	rep, _ := Default().Lookup("home")
	ld := &fakeLoader{sources: map[string]*dataset.Dataset{}}

	_, err := NewRunner(ld, "").Run(context.Background(), rep, Preset{})
	require.Error(t, err)
	assert.True(t, dataset.ErrIs(err, dataset.LoadErrCode))
	assert.Len(t, ld.calls, 1)
}
