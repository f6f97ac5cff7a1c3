package engine

import (
	"sort"

	"github.com/nonsonwune/ncaafb_db/dataset"
)

// SortKey orders a dataset by one column.
type SortKey struct {
	Field string
	Desc  bool
}

// Asc and Desc build sort keys.
func Asc(field string) SortKey  { return SortKey{Field: field} }
func Desc(field string) SortKey { return SortKey{Field: field, Desc: true} }

// Sort returns ds ordered by keys, stable, with nulls last in either
// direction.
func Sort(ds *dataset.Dataset, keys ...SortKey) (*dataset.Dataset, error) {
	cols := make([]int, len(keys))
	for i, k := range keys {
		c, ok := ds.ColumnIndex(k.Field)
		if !ok {
			return nil, dataset.SchemaErr("sort column not found", map[string]any{"column": k.Field})
		}
		cols[i] = c
	}

	indices := make([]int, ds.Len())
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		ra, rb := indices[a], indices[b]
		for k, c := range cols {
			if cmp := compareCells(ds.At(ra, c), ds.At(rb, c), keys[k].Desc); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return ds.Select(indices), nil
}

// SortAll orders ds by every column, left to right, ascending.
func SortAll(ds *dataset.Dataset) (*dataset.Dataset, error) {
	cols := ds.Columns()
	keys := make([]SortKey, len(cols))
	for i, c := range cols {
		keys[i] = Asc(c)
	}
	return Sort(ds, keys...)
}

func compareCells(a, b dataset.Value, desc bool) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return 1
	case b.IsNull():
		return -1
	}
	cmp := a.Compare(b)
	if desc {
		return -cmp
	}
	return cmp
}
