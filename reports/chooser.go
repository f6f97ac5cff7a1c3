package reports

import (
	"strings"

	"github.com/nonsonwune/ncaafb_db/dataset"
)

// Prompt is a question put to a Chooser. Options is nil for free text.
type Prompt struct {
	Key     string
	Label   string
	Options []string
	Default string
}

// Chooser answers prompts. The interactive terminal, command line presets
// and natural-language requests all implement it.
type Chooser interface {
	Choose(p Prompt) (string, error)
}

// Preset answers prompts from a fixed key to value map. Missing keys get
// the prompt's default; option matching ignores case.
type Preset map[string]string

func (p Preset) Choose(pr Prompt) (string, error) {
	v, ok := p[pr.Key]
	if !ok {
		return pr.Default, nil
	}
	if pr.Options == nil {
		return v, nil
	}
	for _, opt := range pr.Options {
		if strings.EqualFold(opt, strings.TrimSpace(v)) {
			return opt, nil
		}
	}
	return "", dataset.SpecErr("choice is not one of the options", map[string]any{
		"prompt": pr.Key,
		"choice": v,
	})
}
