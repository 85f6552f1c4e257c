package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"niveshak/internal/provider"
)

// GeminiCompleter calls the Gemini API. The free tier is rate limited, so callers
// normally wrap it in RateLimited.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter creates a Gemini client. baseURL may be empty to use the
// public endpoint.
func NewGeminiCompleter(ctx context.Context, httpClient *http.Client, apiKey, model, baseURL string) (*GeminiCompleter, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

// Name returns "gemini".
func (g *GeminiCompleter) Name() string { return "gemini" }

// Tag returns ai_gemini.
func (g *GeminiCompleter) Tag() string { return provider.TagGemini }

// Complete sends prompt with temperature 0 and returns the text of the first candidate.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0)),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty text in gemini response")
	}
	return text, nil
}
