// Package engine filters, groups and sorts datasets. Every page of the
// dashboard is a load followed by ApplyFilters and, for reports, Aggregate.
package engine

import (
	"strings"
	"time"

	"github.com/nonsonwune/ncaafb_db/dataset"
)

// ============================================================================
// FILTERS: declarative predicates over a Dataset
// ============================================================================
// Specs are applied in sequence; each step keeps a subset of the previous
// step's rows, so the final set is the AND of every active spec. A spec
// built from the "All" sentinel (or an empty needle, zero date or empty
// expression) is unset and skipped.
// ============================================================================

// AllLabel is the dropdown choice meaning "no constraint".
const AllLabel = "All"

// FilterKind tags a FilterSpec.
type FilterKind uint8

const (
	KindEquals FilterKind = iota + 1
	KindSubstring
	KindNumericAtLeast
	KindNumericAtMost
	KindDateAtOrAfter
	KindExpression
	KindNotNull
)

func (k FilterKind) String() string {
	switch k {
	case KindEquals:
		return "equals"
	case KindSubstring:
		return "substring"
	case KindNumericAtLeast:
		return "numeric_at_least"
	case KindNumericAtMost:
		return "numeric_at_most"
	case KindDateAtOrAfter:
		return "date_at_or_after"
	case KindExpression:
		return "expression"
	case KindNotNull:
		return "not_null"
	default:
		return "unknown"
	}
}

// FilterSpec is a single predicate. Build it with one of the constructors.
type FilterSpec struct {
	Kind          FilterKind
	Fields        []string
	Value         dataset.Value
	Needle        string
	CaseSensitive bool
	Threshold     float64
	Since         time.Time
	Expr          string
	ExcludeNulls  bool

	unset bool
}

// Equals keeps rows whose field equals v.
func Equals(field string, v dataset.Value) FilterSpec {
	return FilterSpec{Kind: KindEquals, Fields: []string{field}, Value: v}
}

// All is the unset Equals filter on field.
func All(field string) FilterSpec {
	return FilterSpec{Kind: KindEquals, Fields: []string{field}, unset: true}
}

// SubstringMatchAny keeps rows where needle occurs in any of fields,
// ignoring case. An empty needle leaves the spec unset.
func SubstringMatchAny(needle string, fields ...string) FilterSpec {
	return FilterSpec{
		Kind:   KindSubstring,
		Fields: fields,
		Needle: needle,
		unset:  needle == "",
	}
}

// NumericAtLeast keeps rows where field >= threshold. Null cells count as
// zero unless the spec is narrowed with SkipNulls.
func NumericAtLeast(field string, threshold float64) FilterSpec {
	return FilterSpec{Kind: KindNumericAtLeast, Fields: []string{field}, Threshold: threshold}
}

// NumericAtMost keeps rows where field <= threshold. Null cells never match.
func NumericAtMost(field string, threshold float64) FilterSpec {
	return FilterSpec{Kind: KindNumericAtMost, Fields: []string{field}, Threshold: threshold}
}

// DateAtOrAfter keeps rows whose field, read as a date, is not before
// since. A zero since leaves the spec unset.
func DateAtOrAfter(field string, since time.Time) FilterSpec {
	return FilterSpec{
		Kind:   KindDateAtOrAfter,
		Fields: []string{field},
		Since:  since,
		unset:  since.IsZero(),
	}
}

// NotNull keeps rows whose field holds a value.
func NotNull(field string) FilterSpec {
	return FilterSpec{Kind: KindNotNull, Fields: []string{field}}
}

// Expression keeps rows for which the boolean expression holds. See
// compileExpression for the row representation.
func Expression(expr string) FilterSpec {
	expr = strings.TrimSpace(expr)
	return FilterSpec{Kind: KindExpression, Expr: expr, unset: expr == ""}
}

// MatchCase returns a copy of a substring spec that respects case.
func (f FilterSpec) MatchCase() FilterSpec {
	f.CaseSensitive = true
	return f
}

// SkipNulls returns a copy of a NumericAtLeast spec that drops null cells
// instead of counting them as zero.
func (f FilterSpec) SkipNulls() FilterSpec {
	f.ExcludeNulls = true
	return f
}

// IsUnset reports whether the spec contributes no filtering.
func (f FilterSpec) IsUnset() bool { return f.unset }

// ApplyFilters returns the rows of ds satisfying every active spec, in
// their original order. With no active specs ds itself is returned.
func ApplyFilters(ds *dataset.Dataset, specs ...FilterSpec) (*dataset.Dataset, error) {
	out := ds
	for _, spec := range specs {
		if spec.unset {
			continue
		}
		match, err := spec.matcher(out)
		if err != nil {
			return nil, err
		}

		indices := make([]int, 0, out.Len())
		for i := 0; i < out.Len(); i++ {
			if match(i) {
				indices = append(indices, i)
			}
		}
		out = out.Select(indices)
	}
	return out, nil
}

// matcher resolves the spec's columns against ds and returns a per-row
// predicate.
func (f FilterSpec) matcher(ds *dataset.Dataset) (func(i int) bool, error) {
	if f.Kind == KindExpression {
		return compileExpression(ds, f.Expr)
	}

	if len(f.Fields) == 0 {
		return nil, dataset.SpecErr("filter has no fields", map[string]any{"kind": f.Kind.String()})
	}
	cols := make([]int, len(f.Fields))
	for i, field := range f.Fields {
		c, ok := ds.ColumnIndex(field)
		if !ok {
			return nil, dataset.SchemaErr("filter column not found", map[string]any{
				"column": field,
				"kind":   f.Kind.String(),
			})
		}
		cols[i] = c
	}

	switch f.Kind {
	case KindEquals:
		c := cols[0]
		return func(i int) bool { return equalsCell(ds.At(i, c), f.Value) }, nil

	case KindSubstring:
		needle := f.Needle
		if !f.CaseSensitive {
			needle = strings.ToLower(needle)
		}
		return func(i int) bool {
			for _, c := range cols {
				v := ds.At(i, c)
				if v.IsNull() {
					continue
				}
				s := v.String()
				if !f.CaseSensitive {
					s = strings.ToLower(s)
				}
				if strings.Contains(s, needle) {
					return true
				}
			}
			return false
		}, nil

	case KindNumericAtLeast:
		c := cols[0]
		return func(i int) bool {
			v := ds.At(i, c)
			if v.IsNull() {
				return !f.ExcludeNulls && 0 >= f.Threshold
			}
			n, ok := v.Float()
			return ok && n >= f.Threshold
		}, nil

	case KindNumericAtMost:
		c := cols[0]
		return func(i int) bool {
			n, ok := ds.At(i, c).Float()
			return ok && n <= f.Threshold
		}, nil

	case KindNotNull:
		c := cols[0]
		return func(i int) bool { return !ds.At(i, c).IsNull() }, nil

	case KindDateAtOrAfter:
		c := cols[0]
		return func(i int) bool {
			t, ok := ds.At(i, c).Time()
			return ok && !t.Before(f.Since)
		}, nil
	}

	return nil, dataset.SpecErr("unknown filter kind", map[string]any{"kind": int(f.Kind)})
}

// equalsCell compares a cell to a filter value. A string value is matched
// against the cell's text form when the cell holds another kind, since
// dropdown choices arrive as text.
func equalsCell(cell, want dataset.Value) bool {
	if cell.Equal(want) {
		return true
	}
	if want.Kind() == dataset.KindString && !cell.IsNull() && cell.Kind() != dataset.KindString {
		return cell.String() == want.String()
	}
	return false
}
