package engine

import (
	"github.com/hashicorp/go-bexpr"

	"github.com/nonsonwune/ncaafb_db/dataset"
)

// compileExpression builds a row predicate from a go-bexpr expression such
// as `position == "QB" and status != "Inactive"`. Each row is presented as
// a map keyed by column name; dates appear as YYYY-MM-DD strings and nulls
// as nil. A row the evaluator rejects with an error does not match.
func compileExpression(ds *dataset.Dataset, expr string) (func(i int) bool, error) {
	evaluator, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, dataset.SpecErr("invalid filter expression", map[string]any{
			"expression": expr,
			"cause":      err,
		})
	}

	return func(i int) bool {
		rec := ds.Record(i)
		vars := make(map[string]any, len(rec))
		for name, v := range rec {
			vars[name] = exprValue(v)
		}
		ok, err := evaluator.Evaluate(vars)
		if err != nil {
			return false
		}
		return ok
	}, nil
}

func exprValue(v dataset.Value) any {
	if v.Kind() == dataset.KindDate {
		return v.String()
	}
	return v.Interface()
}
