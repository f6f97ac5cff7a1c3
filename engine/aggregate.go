package engine

import (
	"strings"

	"github.com/nonsonwune/ncaafb_db/dataset"
)

// ============================================================================
// AGGREGATE: group, reduce, sort
// ============================================================================
// Partitions keep the order in which their first row was seen, so a stable
// sort leaves tied groups in encounter order.
// ============================================================================

// AggOp is the reduction applied to each group.
type AggOp uint8

const (
	CountDistinct AggOp = iota + 1
	Mean
	Sum
	// Count is the number of rows in the group; Field is ignored.
	Count
)

func (op AggOp) String() string {
	switch op {
	case CountDistinct:
		return "count_distinct"
	case Mean:
		return "mean"
	case Sum:
		return "sum"
	case Count:
		return "count"
	default:
		return "unknown"
	}
}

// AggregateSpec describes one grouped report.
type AggregateSpec struct {
	GroupBy []string
	Op      AggOp
	Field   string
	As      string
	Sort    []SortKey
}

type group struct {
	key  []dataset.Value
	rows []int
}

// Aggregate returns one row per distinct GroupBy key holding the key
// fields and the reduced As column, sorted by spec.Sort.
func Aggregate(ds *dataset.Dataset, spec AggregateSpec) (*dataset.Dataset, error) {
	if err := spec.validate(ds); err != nil {
		return nil, err
	}

	keyCols := make([]int, len(spec.GroupBy))
	for i, f := range spec.GroupBy {
		keyCols[i], _ = ds.ColumnIndex(f)
	}

	groups := partition(ds, keyCols)

	outCols := append(append([]string(nil), spec.GroupBy...), spec.As)
	rows := make([]dataset.Row, 0, len(groups))
	for _, g := range groups {
		row := make(dataset.Row, 0, len(outCols))
		row = append(row, g.key...)
		row = append(row, reduce(ds, spec, g.rows))
		rows = append(rows, row)
	}

	out, err := dataset.New(outCols, rows)
	if err != nil {
		return nil, err
	}
	if len(spec.Sort) == 0 {
		return out, nil
	}
	return Sort(out, spec.Sort...)
}

func (spec AggregateSpec) validate(ds *dataset.Dataset) error {
	if len(spec.GroupBy) == 0 {
		return dataset.SpecErr("aggregate needs at least one grouping field", nil)
	}
	if strings.TrimSpace(spec.As) == "" {
		return dataset.SpecErr("aggregate needs an output column name", nil)
	}
	for _, f := range spec.GroupBy {
		if f == spec.As {
			return dataset.SpecErr("output column collides with a grouping field", map[string]any{"column": f})
		}
		if !ds.HasColumn(f) {
			return dataset.SchemaErr("grouping column not found", map[string]any{"column": f})
		}
	}
	switch spec.Op {
	case Count:
	case CountDistinct, Mean, Sum:
		if !ds.HasColumn(spec.Field) {
			return dataset.SchemaErr("aggregate column not found", map[string]any{
				"column": spec.Field,
				"op":     spec.Op.String(),
			})
		}
	default:
		return dataset.SpecErr("unknown aggregate operation", map[string]any{"op": int(spec.Op)})
	}
	return nil
}

// partition groups row indices by the values in keyCols, in first-seen
// order. Nulls form their own group.
func partition(ds *dataset.Dataset, keyCols []int) []*group {
	byKey := make(map[string]*group)
	var order []*group

	var sb strings.Builder
	for i := 0; i < ds.Len(); i++ {
		sb.Reset()
		for _, c := range keyCols {
			sb.WriteString(ds.At(i, c).Key())
			sb.WriteByte(0x1f)
		}
		k := sb.String()

		g, ok := byKey[k]
		if !ok {
			g = &group{key: make([]dataset.Value, len(keyCols))}
			for j, c := range keyCols {
				g.key[j] = ds.At(i, c)
			}
			byKey[k] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, i)
	}
	return order
}

func reduce(ds *dataset.Dataset, spec AggregateSpec, rows []int) dataset.Value {
	if spec.Op == Count {
		return dataset.Int(int64(len(rows)))
	}

	c, _ := ds.ColumnIndex(spec.Field)
	switch spec.Op {
	case CountDistinct:
		seen := make(map[string]bool)
		for _, i := range rows {
			v := ds.At(i, c)
			if !v.IsNull() {
				seen[v.Key()] = true
			}
		}
		return dataset.Int(int64(len(seen)))

	case Sum, Mean:
		intColumn := ds.Kind(spec.Field) == dataset.KindInt
		var total float64
		var itotal int64
		var n int
		for _, i := range rows {
			v := ds.At(i, c)
			if intColumn && v.Kind() == dataset.KindInt {
				itotal += v.Interface().(int64)
			}
			f, ok := v.Float()
			if !ok {
				continue
			}
			total += f
			n++
		}
		if spec.Op == Sum {
			if intColumn {
				return dataset.Int(itotal)
			}
			return dataset.Float(total)
		}
		if n == 0 {
			return dataset.Null()
		}
		return dataset.Float(total / float64(n))
	}
	return dataset.Null()
}
