// Package reports declares the dashboard pages as data and runs them: each
// report names its sources, the controls a user picks filters with, and the
// fixed filters, aggregation and ordering applied to what was loaded.
package reports

import (
	"context"

	"github.com/nonsonwune/ncaafb_db/dataset"
	"github.com/nonsonwune/ncaafb_db/engine"
	"github.com/nonsonwune/ncaafb_db/loader"
)

// Loader is satisfied by *loader.Loader.
type Loader interface {
	Load(ctx context.Context, src loader.Source) (*dataset.Dataset, error)
}

// ControlKind selects how a control's answer becomes a filter.
type ControlKind uint8

const (
	// Select offers "All" plus the distinct values of Field.
	Select ControlKind = iota
	// Search matches free text against any of Fields.
	Search
	// MinNumber keeps rows whose Field is at least the number typed.
	MinNumber
	// DateFrom keeps rows whose Field is on or after the date typed.
	DateFrom
	// Expr applies a boolean expression over the row.
	Expr
)

func (k ControlKind) String() string {
	switch k {
	case Select:
		return "select"
	case Search:
		return "search"
	case MinNumber:
		return "min"
	case DateFrom:
		return "date_from"
	case Expr:
		return "expression"
	default:
		return "unknown"
	}
}

// Control is one user-facing filter widget.
type Control struct {
	Key     string
	Label   string
	Kind    ControlKind
	Field   string
	Fields  []string
	Default string

	// SkipNulls makes a MinNumber control drop null cells instead of
	// counting them as zero.
	SkipNulls bool
}

// Env is what a source function may depend on.
type Env struct {
	RankingsPath string
	// Param is the value picked for the report's Param, null if it has none.
	Param dataset.Value
}

// SourceFunc builds the source to load for one run.
type SourceFunc func(Env) loader.Source

// Param is a value the whole report depends on, such as the team a
// profile is about. Options come either from Options or from the
// LabelField of a loaded source; the chosen label maps to ValueField of
// the first row carrying it.
type Param struct {
	Key        string
	Label      string
	Options    []string
	Source     SourceFunc
	Require    []string
	NonEmpty   bool
	LabelField string
	ValueField string
	Sort       []engine.SortKey
}

// Chart asks for a bar chart of Value per Label next to the table.
type Chart struct {
	Label string
	Value string
}

// Section is one table of a report.
type Section struct {
	Title    string
	Source   SourceFunc
	Require  []string
	NonEmpty bool
	// Where filters are always applied, before any control.
	Where []engine.FilterSpec
	// ParamField, when set, keeps rows whose field equals the report param.
	ParamField string
	Controls   []Control
	Aggregate  *engine.AggregateSpec
	Sort       []engine.SortKey
	SortAll    bool
	Chart      *Chart
}

// Report is one page. A report with Questions lets the user pick one of
// them and runs that instead of its own sections.
type Report struct {
	ID          string
	Title       string
	Description string
	Param       *Param
	Sections    []Section
	Questions   []Report
}

// Result is one rendered section.
type Result struct {
	Title string
	Data  *dataset.Dataset
	Chart *Chart
}
