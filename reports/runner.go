package reports

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/nonsonwune/ncaafb_db/dataset"
	"github.com/nonsonwune/ncaafb_db/engine"
	"github.com/nonsonwune/ncaafb_db/loader"
)

// QuestionKey is the prompt key used to pick one of a report's questions.
const QuestionKey = "question"

// Runner executes reports. Every run loads its sources afresh.
type Runner struct {
	loader       Loader
	rankingsPath string
}

func NewRunner(ld Loader, rankingsPath string) *Runner {
	return &Runner{loader: ld, rankingsPath: rankingsPath}
}

// Run resolves the report's question and parameter through ch, then loads,
// filters, aggregates and sorts each section in order. The first failing
// section aborts the run.
func (r *Runner) Run(ctx context.Context, rep Report, ch Chooser) ([]Result, error) {
	if len(rep.Questions) > 0 {
		q, err := r.chooseQuestion(rep, ch)
		if err != nil {
			return nil, err
		}
		return r.Run(ctx, q, ch)
	}

	env := Env{RankingsPath: r.rankingsPath, Param: dataset.Null()}
	if rep.Param != nil {
		v, err := r.resolveParam(ctx, env, *rep.Param, ch)
		if err != nil {
			return nil, err
		}
		env.Param = v
	}

	results := make([]Result, 0, len(rep.Sections))
	for _, sec := range rep.Sections {
		ds, err := r.runSection(ctx, env, sec, ch)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Title: sec.Title, Data: ds, Chart: sec.Chart})
	}
	return results, nil
}

func (r *Runner) chooseQuestion(rep Report, ch Chooser) (Report, error) {
	titles := make([]string, len(rep.Questions))
	for i, q := range rep.Questions {
		titles[i] = q.Title
	}

	choice, err := ch.Choose(Prompt{
		Key:     QuestionKey,
		Label:   "Select an analysis question",
		Options: titles,
		Default: titles[0],
	})
	if err != nil {
		return Report{}, err
	}
	for _, q := range rep.Questions {
		if q.Title == choice || q.ID == choice {
			return q, nil
		}
	}
	return Report{}, dataset.SpecErr("unknown question", map[string]any{
		"report":   rep.ID,
		"question": choice,
	})
}

func (r *Runner) resolveParam(ctx context.Context, env Env, p Param, ch Chooser) (dataset.Value, error) {
	if p.Source == nil {
		if len(p.Options) == 0 {
			return dataset.Value{}, dataset.SpecErr("parameter has no options", map[string]any{"param": p.Key})
		}
		choice, err := ch.Choose(Prompt{Key: p.Key, Label: p.Label, Options: p.Options, Default: p.Options[0]})
		if err != nil {
			return dataset.Value{}, err
		}
		return dataset.String(choice), nil
	}

	src := p.Source(env)
	ds, err := r.load(ctx, src, p.NonEmpty, p.Require)
	if err != nil {
		return dataset.Value{}, err
	}
	if err := ds.RequireColumns(p.LabelField, p.ValueField); err != nil {
		return dataset.Value{}, err
	}
	if len(p.Sort) > 0 {
		if ds, err = engine.Sort(ds, p.Sort...); err != nil {
			return dataset.Value{}, err
		}
	}

	var options []string
	values := make(map[string]dataset.Value)
	for i := 0; i < ds.Len(); i++ {
		label, _ := ds.Value(i, p.LabelField)
		if label.IsNull() {
			continue
		}
		key := label.String()
		if _, ok := values[key]; ok {
			continue
		}
		v, _ := ds.Value(i, p.ValueField)
		values[key] = v
		options = append(options, key)
	}
	if len(options) == 0 {
		return dataset.Value{}, dataset.LoadErr("nothing to choose from", map[string]any{
			"param":  p.Key,
			"source": src.Name,
		})
	}

	choice, err := ch.Choose(Prompt{Key: p.Key, Label: p.Label, Options: options, Default: options[0]})
	if err != nil {
		return dataset.Value{}, err
	}
	v, ok := values[choice]
	if !ok {
		return dataset.Value{}, dataset.SpecErr("choice is not one of the options", map[string]any{
			"prompt": p.Key,
			"choice": choice,
		})
	}
	return v, nil
}

func (r *Runner) load(ctx context.Context, src loader.Source, nonEmpty bool, require []string) (*dataset.Dataset, error) {
	ds, err := r.loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	if nonEmpty && ds.Len() == 0 {
		return nil, dataset.LoadErr("source is empty", map[string]any{"source": src.Name})
	}
	if err := ds.RequireColumns(require...); err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *Runner) runSection(ctx context.Context, env Env, sec Section, ch Chooser) (*dataset.Dataset, error) {
	ds, err := r.load(ctx, sec.Source(env), sec.NonEmpty, sec.Require)
	if err != nil {
		return nil, err
	}

	specs := append([]engine.FilterSpec(nil), sec.Where...)
	if sec.ParamField != "" {
		specs = append(specs, engine.Equals(sec.ParamField, env.Param))
	}
	for _, c := range sec.Controls {
		spec, err := controlFilter(ds, c, ch)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	if ds, err = engine.ApplyFilters(ds, specs...); err != nil {
		return nil, err
	}

	switch {
	case sec.Aggregate != nil:
		return engine.Aggregate(ds, *sec.Aggregate)
	case len(sec.Sort) > 0:
		return engine.Sort(ds, sec.Sort...)
	case sec.SortAll:
		return engine.SortAll(ds)
	default:
		return ds, nil
	}
}

// controlFilter asks ch for the control's value and turns the answer into
// a filter. Select options are computed from the unfiltered data.
func controlFilter(ds *dataset.Dataset, c Control, ch Chooser) (engine.FilterSpec, error) {
	prompt := Prompt{Key: c.Key, Label: c.Label, Default: c.Default}

	if c.Kind == Select {
		if err := ds.RequireColumns(c.Field); err != nil {
			return engine.FilterSpec{}, err
		}
		prompt.Options = SelectOptions(ds, c.Field)
		if prompt.Default == "" {
			prompt.Default = engine.AllLabel
		}
	}

	answer, err := ch.Choose(prompt)
	if err != nil {
		return engine.FilterSpec{}, err
	}
	answer = strings.TrimSpace(answer)

	switch c.Kind {
	case Select:
		if answer == "" || answer == engine.AllLabel {
			return engine.All(c.Field), nil
		}
		return engine.Equals(c.Field, dataset.String(answer)), nil
	case Search:
		return engine.SubstringMatchAny(answer, c.Fields...), nil
	case MinNumber:
		if answer == "" {
			answer = "0"
		}
		n, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return engine.FilterSpec{}, dataset.ParseErr("not a number", map[string]any{
				"control": c.Key,
				"input":   answer,
			})
		}
		spec := engine.NumericAtLeast(c.Field, n)
		if c.SkipNulls {
			spec = spec.SkipNulls()
		}
		return spec, nil
	case DateFrom:
		if answer == "" {
			return engine.DateAtOrAfter(c.Field, time.Time{}), nil
		}
		t, ok := dataset.ParseDate(answer)
		if !ok {
			return engine.FilterSpec{}, dataset.ParseErr("not a date", map[string]any{
				"control": c.Key,
				"input":   answer,
				"layout":  dataset.DateLayout,
			})
		}
		return engine.DateAtOrAfter(c.Field, t), nil
	case Expr:
		return engine.Expression(answer), nil
	default:
		return engine.FilterSpec{}, dataset.SpecErr("unknown control kind", map[string]any{
			"control": c.Key,
			"kind":    c.Kind,
		})
	}
}

// SelectOptions returns "All" followed by the sorted distinct non-null
// values of field.
func SelectOptions(ds *dataset.Dataset, field string) []string {
	values := ds.Distinct(field)
	out := make([]string, 0, len(values)+1)
	out = append(out, engine.AllLabel)
	for _, v := range values {
		out = append(out, v.String())
	}
	return out
}
