package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"niveshak/internal/provider"
)

const systemPrompt = "You are a financial data expert. Provide only the requested data in the exact format specified."

// OpenAICompleter calls the OpenAI chat completions API.
type OpenAICompleter struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAICompleter creates an OpenAI client. baseURL may be empty to use the
// public endpoint.
func NewOpenAICompleter(httpClient *http.Client, apiKey, model, baseURL string) *OpenAICompleter {
	cfg := openai.DefaultConfig(apiKey)
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(cfg), model: model, maxTokens: 500}
}

// Name returns "openai".
func (o *OpenAICompleter) Name() string { return "openai" }

// Tag returns ai_openai.
func (o *OpenAICompleter) Tag() string { return provider.TagOpenAI }

// Complete sends prompt with temperature 0 and returns the first choice's content.
func (o *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
		MaxTokens:   o.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty text in openai response")
	}
	return text, nil
}
