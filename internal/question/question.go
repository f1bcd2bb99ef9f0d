// Package question generates trivia questions through an AI provider and
// wraps generation in a bounded-retry supplier so the game never sees a
// malformed question.
package question

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmorr/voxtrivia/internal/trivia"
)

// prompt sent for every question, regardless of provider.
const generatePrompt = "Generate a unique, challenging, and interesting trivia question on a random topic. Ensure the information is verifiable. Provide 4 multiple-choice options."

// Generator produces one trivia question in the given personality's persona.
type Generator interface {
	Generate(ctx context.Context, p trivia.Personality) (*trivia.Question, error)
}

type Option func(*generatorOptions)

type generatorOptions struct {
	baseURL string
}

func WithBaseURL(url string) Option {
	return func(o *generatorOptions) {
		o.baseURL = url
	}
}

// ParseProvider splits a "provider/model_name" specifier.
func ParseProvider(spec string) (provider, modelName string, err error) {
	parts := strings.SplitN(spec, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid provider format %q: expected provider/model_name", spec)
	}
	return parts[0], parts[1], nil
}

// NewGenerator builds a question generator for the given provider.
func NewGenerator(ctx context.Context, provider, apiKey, model string, opts ...Option) (Generator, error) {
	o := &generatorOptions{}
	for _, opt := range opts {
		opt(o)
	}

	switch provider {
	case "gemini":
		return newGeminiGenerator(ctx, apiKey, model, o)
	case "openai":
		return newOpenAIGenerator(apiKey, model, o)
	default:
		return nil, fmt.Errorf("unknown question provider %q: supported providers are gemini, openai", provider)
	}
}

// parseQuestion decodes and validates a provider's JSON payload.
func parseQuestion(raw string) (*trivia.Question, error) {
	var q trivia.Question
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, fmt.Errorf("decode question: %w", err)
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question: %w", err)
	}
	return &q, nil
}
