package question

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/tmorr/voxtrivia/internal/trivia"
)

type geminiGenerator struct {
	client *genai.Client
	model  string
}

// questionSchema constrains the model to the TriviaQuestion JSON shape.
var questionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"question": {
			Type:        genai.TypeString,
			Description: "The trivia question text.",
		},
		"options": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "An array of 4 multiple-choice answers.",
		},
		"correctAnswerIndex": {
			Type:        genai.TypeInteger,
			Description: "The 0-based index of the correct answer in the options array.",
		},
		"explanation": {
			Type:        genai.TypeString,
			Description: "A brief, witty explanation for the correct answer, in the persona of the host.",
		},
	},
	Required: []string{"question", "options", "correctAnswerIndex", "explanation"},
}

func newGeminiGenerator(ctx context.Context, apiKey, model string, opts *generatorOptions) (*geminiGenerator, error) {
	config := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if opts.baseURL != "" {
		config.HTTPOptions.BaseURL = opts.baseURL
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, p trivia.Personality) (*trivia.Question, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: p.Prompt}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    questionSchema,
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: generatePrompt}}}}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generation: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("gemini: empty response text")
	}

	q, err := parseQuestion(text)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	q.Sources = trivia.FilterSources(groundingSources(resp))
	return q, nil
}

// groundingSources extracts web grounding references from the first
// candidate, when search grounding was used.
func groundingSources(resp *genai.GenerateContentResponse) []trivia.Source {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var sources []trivia.Source
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil {
			continue
		}
		sources = append(sources, trivia.Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return sources
}
