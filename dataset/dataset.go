// Package dataset holds the tabular values every page works with: typed
// cells, immutable datasets and the error kinds shared by the loader and
// the engine.
package dataset

import "sort"

// Row is one record, one Value per dataset column.
type Row []Value

// Dataset is an immutable table: ordered unique column names and rows of
// typed cells. Each column's non-null cells share a single Kind.
type Dataset struct {
	columns []string
	index   map[string]int
	kinds   []Kind
	rows    []Row
}

// New validates columns and rows and returns the dataset. Rows are copied.
func New(columns []string, rows []Row) (*Dataset, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, SchemaErr("duplicate column", map[string]any{"column": c})
		}
		index[c] = i
	}

	kinds := make([]Kind, len(columns))
	copied := make([]Row, len(rows))
	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, SchemaErr("row width does not match columns", map[string]any{
				"row":     r,
				"width":   len(row),
				"columns": len(columns),
			})
		}
		for c, v := range row {
			if v.IsNull() {
				continue
			}
			switch kinds[c] {
			case KindNull:
				kinds[c] = v.Kind()
			case v.Kind():
			default:
				return nil, SchemaErr("inconsistent column type", map[string]any{
					"column":   columns[c],
					"row":      r,
					"expected": kinds[c].String(),
					"got":      v.Kind().String(),
				})
			}
		}
		copied[r] = append(Row(nil), row...)
	}

	return &Dataset{
		columns: append([]string(nil), columns...),
		index:   index,
		kinds:   kinds,
		rows:    copied,
	}, nil
}

// Empty returns a dataset with the given columns and no rows.
func Empty(columns ...string) (*Dataset, error) {
	return New(columns, nil)
}

// Columns returns a copy of the column names in order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Len is the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// ColumnIndex returns the position of a column.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// HasColumn reports whether the dataset has a column called name.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Kind returns the kind shared by the non-null cells of a column, or
// KindNull when the column is unknown or entirely null.
func (d *Dataset) Kind(column string) Kind {
	i, ok := d.index[column]
	if !ok {
		return KindNull
	}
	return d.kinds[i]
}

// Row returns a copy of row i.
func (d *Dataset) Row(i int) Row {
	return append(Row(nil), d.rows[i]...)
}

// Rows returns a copy of all rows.
func (d *Dataset) Rows() []Row {
	out := make([]Row, len(d.rows))
	for i := range d.rows {
		out[i] = d.Row(i)
	}
	return out
}

// Value returns the cell at row i in column. ok is false for an unknown
// column.
func (d *Dataset) Value(i int, column string) (Value, bool) {
	c, ok := d.index[column]
	if !ok {
		return Null(), false
	}
	return d.rows[i][c], true
}

// At returns the cell at row i, column position c.
func (d *Dataset) At(i, c int) Value {
	return d.rows[i][c]
}

// Record returns row i as a column name to value map.
func (d *Dataset) Record(i int) map[string]Value {
	out := make(map[string]Value, len(d.columns))
	for c, name := range d.columns {
		out[name] = d.rows[i][c]
	}
	return out
}

// Select returns a new dataset holding the rows at the given indices, in
// that order. Row storage is shared since rows are never mutated.
func (d *Dataset) Select(indices []int) *Dataset {
	rows := make([]Row, len(indices))
	for i, idx := range indices {
		rows[i] = d.rows[idx]
	}
	return &Dataset{
		columns: d.columns,
		index:   d.index,
		kinds:   d.kinds,
		rows:    rows,
	}
}

// RequireColumns fails with a SchemaErr naming the first absent column.
func (d *Dataset) RequireColumns(columns ...string) error {
	for _, c := range columns {
		if !d.HasColumn(c) {
			return SchemaErr("required column not found", map[string]any{
				"column":    c,
				"available": d.columns,
			})
		}
	}
	return nil
}

// Equal reports whether both datasets have the same columns and the same
// rows in the same order.
func (d *Dataset) Equal(o *Dataset) bool {
	if d == nil || o == nil {
		return d == o
	}
	if len(d.columns) != len(o.columns) || len(d.rows) != len(o.rows) {
		return false
	}
	for i := range d.columns {
		if d.columns[i] != o.columns[i] {
			return false
		}
	}
	for r := range d.rows {
		for c := range d.rows[r] {
			if !d.rows[r][c].Equal(o.rows[r][c]) {
				return false
			}
		}
	}
	return true
}

// Distinct returns the sorted distinct non-null values of a column.
func (d *Dataset) Distinct(column string) []Value {
	c, ok := d.index[column]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []Value
	for _, row := range d.rows {
		v := row[c]
		if v.IsNull() || seen[v.Key()] {
			continue
		}
		seen[v.Key()] = true
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}
