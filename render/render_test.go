package render

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nonsonwune/ncaafb_db/dataset"
	"github.com/nonsonwune/ncaafb_db/reports"
)

func init() {
	color.NoColor = true
}

func positions(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New([]string{"position", "player_count"}, []dataset.Row{
		{dataset.String("QB"), dataset.Int(4)},
		{dataset.String("TE"), dataset.Int(2)},
		{dataset.Null(), dataset.Int(1)},
	})
	require.NoError(t, err)
	return ds
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, "Position Distribution", positions(t))

	out := buf.String()
	assert.Contains(t, out, "Position Distribution\n")
	assert.Contains(t, out, "POSITION")
	assert.Contains(t, out, "PLAYER COUNT")
	assert.Contains(t, out, "QB")
	assert.Contains(t, out, NullText)
	assert.Contains(t, out, "(3 rows)")
}

func TestTableEmpty(t *testing.T) {
	ds, err := dataset.Empty("name", "city")
	require.NoError(t, err)

	var buf bytes.Buffer
	Table(&buf, "Venues", ds)
	assert.Contains(t, buf.String(), "No results found")
}

func TestBarChart(t *testing.T) {
	var buf bytes.Buffer
	BarChart(&buf, positions(t), "position", "player_count")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "QB   "+strings.Repeat("█", barWidth)+" 4", lines[0])
	assert.Equal(t, "TE   "+strings.Repeat("█", barWidth/2)+" 2", lines[1])
	assert.Equal(t, "NULL "+strings.Repeat("█", barWidth/4)+" 1", lines[2])
}

func TestResultsDrawsRequestedCharts(t *testing.T) {
	var buf bytes.Buffer
	Results(&buf, []reports.Result{
		{Title: "Roster", Data: positions(t)},
		{Title: "Chart", Data: positions(t), Chart: &reports.Chart{Label: "position", Value: "player_count"}},
	})
	assert.Equal(t, 1, strings.Count(buf.String(), strings.Repeat("█", barWidth)))
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	results := []reports.Result{
		{Title: "Position Distribution", Data: positions(t)},
		{Title: "Which teams have maintained Top 5 rankings: across seasons?", Data: positions(t)},
	}
	require.NoError(t, ExportXLSX(path, results))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 2)
	assert.Equal(t, "Position Distribution", sheets[0])
	assert.LessOrEqual(t, len([]rune(sheets[1])), maxSheetName)
	assert.NotContains(t, sheets[1], ":")

	rows, err := f.GetRows(sheets[0])
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"position", "player_count"}, rows[0])
	assert.Equal(t, []string{"QB", "4"}, rows[1])
	assert.Equal(t, []string{"", "1"}, rows[3])

	assert.Error(t, ExportXLSX(path, nil))
}

func TestSheetNamesAreUnique(t *testing.T) {
	used := map[string]bool{}
	a := sheetName("Roster", 0, used)
	b := sheetName("roster", 1, used)
	c := sheetName("", 2, used)

	assert.Equal(t, "Roster", a)
	assert.Equal(t, "roster (2)", b)
	assert.Equal(t, "Sheet3", c)
}
