package nlquery

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini generates text with Google's Gemini models, rotating API keys.
type Gemini struct {
	keys  *KeyManager
	model string
}

func NewGemini(keys *KeyManager, model string) (*Gemini, error) {
	if keys == nil || keys.Len() == 0 {
		return nil, fmt.Errorf("no Gemini API key configured (set GEMINI_API_KEY or GEMINI_API_KEY_1..4)")
	}
	return &Gemini{keys: keys, model: model}, nil
}

// Generate sends prompt and returns the text of the first candidate. The
// model is asked for JSON output.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	key := g.keys.GetNextKey()
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return "", fmt.Errorf("error initializing Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	temp := float32(0.2)
	model.Temperature = &temp
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if isRateLimitError(err) {
			g.keys.MarkKeyFailed(key)
		}
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("response has no text")
	}
	return b.String(), nil
}

// Helper function to check for rate limit errors
func isRateLimitError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota exceeded") ||
		strings.Contains(msg, "resource exhausted")
}
