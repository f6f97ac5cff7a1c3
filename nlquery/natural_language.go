// Package nlquery turns a question in plain English into a report request:
// a report id and answers for its prompts. It never produces SQL; the
// request runs through the same report registry as the menu.
package nlquery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/nonsonwune/ncaafb_db/dataset"
	"github.com/nonsonwune/ncaafb_db/nlquery/prompts"
	"github.com/nonsonwune/ncaafb_db/reports"
)

// Generator produces a model completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request is a translated question.
type Request struct {
	Report      string            `json:"report"`
	Selections  map[string]string `json:"selections"`
	Explanation string            `json:"explanation"`
}

// Preset returns the selections as a chooser for reports.Runner.
func (r Request) Preset() reports.Preset {
	p := make(reports.Preset, len(r.Selections))
	for k, v := range r.Selections {
		p[k] = v
	}
	return p
}

// Translator asks a Generator to map questions onto the registry.
type Translator struct {
	gen      Generator
	registry *reports.Registry
	prompts  *prompts.PromptBuilder
	backoff  []time.Duration
	timeout  time.Duration
}

// Option configures a Translator.
type Option func(*Translator)

// WithBackoff sets the wait after each failed attempt; its length is the
// number of attempts. No wait follows the last attempt.
func WithBackoff(waits ...time.Duration) Option {
	return func(t *Translator) {
		t.backoff = waits
	}
}

// WithTimeout bounds a whole translation, retries included.
func WithTimeout(d time.Duration) Option {
	return func(t *Translator) {
		t.timeout = d
	}
}

func NewTranslator(gen Generator, registry *reports.Registry, opts ...Option) *Translator {
	t := &Translator{
		gen:      gen,
		registry: registry,
		prompts:  prompts.NewPromptBuilder(),
		backoff:  []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		timeout:  45 * time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate maps question onto a report of the registry. Answers that do
// not name a known report or prompt are sent back to the model for
// correction until the attempts run out.
func (t *Translator) Translate(ctx context.Context, question string) (Request, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Request{}, dataset.SpecErr("empty question", nil)
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	base := t.prompts.BuildRequestPrompt(t.registry.Describe(), question)
	prompt := base
	var lastErr error
	for i, wait := range t.backoff {
		text, err := t.gen.Generate(ctx, prompt)
		if err == nil {
			var req Request
			req, err = t.parse(text)
			if err == nil {
				return req, nil
			}
			prompt = t.prompts.BuildRepairPrompt(base, text, err)
		}

		lastErr = err
		log.Printf("Attempt %d failed: %v", i+1, err)
		if i == len(t.backoff)-1 {
			break
		}
		if err := sleep(ctx, wait); err != nil {
			lastErr = err
			break
		}
	}

	if errors.Is(lastErr, context.DeadlineExceeded) {
		return Request{}, fmt.Errorf("the question timed out, try a more specific one: %w", lastErr)
	}
	if lastErr != nil {
		return Request{}, fmt.Errorf("all attempts failed, last error: %w", lastErr)
	}
	return Request{}, fmt.Errorf("failed to translate question after all attempts")
}

// Explain asks the model for a friendly message about a failed question.
// It falls back to a generic message when the model cannot answer.
func (t *Translator) Explain(ctx context.Context, question string, cause error) string {
	const fallback = "An error occurred while processing your question"

	text, err := t.gen.Generate(ctx, t.prompts.BuildErrorPrompt(question, cause))
	if err != nil {
		return fallback
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &out); err != nil || strings.TrimSpace(out.Message) == "" {
		return fallback
	}
	return strings.TrimSpace(out.Message)
}

func (t *Translator) parse(text string) (Request, error) {
	var req Request
	if err := json.Unmarshal([]byte(extractJSON(text)), &req); err != nil {
		return Request{}, dataset.SpecErr("answer is not a JSON request", map[string]any{"cause": err})
	}

	rep, ok := t.registry.Lookup(req.Report)
	if !ok {
		return Request{}, dataset.SpecErr("unknown report", map[string]any{"report": req.Report})
	}
	req.Report = rep.ID

	keys := promptKeys(rep)
	var unknown []string
	for k := range req.Selections {
		if !keys[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Request{}, dataset.SpecErr("unknown prompt keys", map[string]any{
			"report": rep.ID,
			"keys":   unknown,
		})
	}
	return req, nil
}

func promptKeys(rep reports.Report) map[string]bool {
	keys := make(map[string]bool)
	if len(rep.Questions) > 0 {
		keys[reports.QuestionKey] = true
	}
	if rep.Param != nil {
		keys[rep.Param.Key] = true
	}
	for _, sec := range rep.Sections {
		for _, c := range sec.Controls {
			keys[c.Key] = true
		}
	}
	return keys
}

// extractJSON strips code fences and any prose around the outermost object.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	for _, fence := range []string{"```json", "```JSON", "```"} {
		if strings.HasPrefix(text, fence) {
			text = strings.TrimPrefix(text, fence)
			if idx := strings.LastIndex(text, "```"); idx != -1 {
				text = text[:idx]
			}
			break
		}
	}

	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return strings.TrimSpace(text)
	}
	return text[start : end+1]
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
