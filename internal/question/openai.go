package question

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tmorr/voxtrivia/internal/trivia"
)

type openaiGenerator struct {
	client *openai.Client
	model  string
}

// openaiSchemaHint spells out the JSON shape since the chat completions
// JSON mode does not take a response schema.
const openaiSchemaHint = `Respond with a single JSON object of the form {"question": string, "options": [string, string, string, string], "correctAnswerIndex": integer in [0,3], "explanation": string}. The explanation should be brief and in the persona of the host.`

func newOpenAIGenerator(apiKey, model string, opts *generatorOptions) (*openaiGenerator, error) {
	config := openai.DefaultConfig(apiKey)
	if opts.baseURL != "" {
		config.BaseURL = opts.baseURL
	}
	return &openaiGenerator{client: openai.NewClientWithConfig(config), model: model}, nil
}

func (g *openaiGenerator) Generate(ctx context.Context, p trivia.Personality) (*trivia.Question, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.Prompt},
			{Role: openai.ChatMessageRoleUser, Content: generatePrompt + "\n\n" + openaiSchemaHint},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai generation: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no choices in response")
	}

	q, err := parseQuestion(strings.TrimSpace(resp.Choices[0].Message.Content))
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return q, nil
}
