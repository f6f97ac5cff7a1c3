// Package render prints report results to a terminal and exports them to
// spreadsheets.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/nonsonwune/ncaafb_db/dataset"
	"github.com/nonsonwune/ncaafb_db/reports"
)

// NullText is shown for null cells.
const NullText = "NULL"

const barWidth = 40

var heading = color.New(color.FgYellow)

// Results prints every result: a heading, the table and, when asked for, a
// bar chart.
func Results(w io.Writer, results []reports.Result) {
	for _, res := range results {
		Table(w, res.Title, res.Data)
		if res.Chart != nil && res.Data.Len() > 0 {
			BarChart(w, res.Data, res.Chart.Label, res.Chart.Value)
		}
	}
}

// Table prints ds under a coloured title.
func Table(w io.Writer, title string, ds *dataset.Dataset) {
	heading.Fprintf(w, "\n%s\n", title)
	if ds.Len() == 0 {
		fmt.Fprintln(w, "No results found")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(ds.Columns())
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for _, row := range ds.Rows() {
		cells := make([]string, len(row))
		for i, v := range row {
			if v.IsNull() {
				cells[i] = NullText
				continue
			}
			cells[i] = v.String()
		}
		table.Append(cells)
	}

	table.Render()
	fmt.Fprintf(w, "(%d rows)\n", ds.Len())
}

// BarChart draws one horizontal bar per row, scaled to the largest value.
// Rows whose value is not numeric are skipped.
func BarChart(w io.Writer, ds *dataset.Dataset, labelCol, valueCol string) {
	type bar struct {
		label string
		value float64
	}

	var bars []bar
	width, max := 0, 0.0
	for i := 0; i < ds.Len(); i++ {
		v, _ := ds.Value(i, valueCol)
		n, ok := v.Float()
		if !ok {
			continue
		}
		l, _ := ds.Value(i, labelCol)
		label := l.String()
		if l.IsNull() {
			label = NullText
		}
		bars = append(bars, bar{label: label, value: n})
		width = int(math.Max(float64(width), float64(len(label))))
		max = math.Max(max, n)
	}

	for _, b := range bars {
		n := 0
		if max > 0 && b.value > 0 {
			n = int(math.Round(b.value / max * barWidth))
		}
		fmt.Fprintf(w, "%-*s %s %s\n", width, b.label, strings.Repeat("█", n), dataset.Float(b.value).String())
	}
}
