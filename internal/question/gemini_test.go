package question

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tmorr/voxtrivia/internal/trivia"
)

func geminiQuestionResponse(text string, grounding map[string]any) map[string]any {
	candidate := map[string]any{
		"content": map[string]any{
			"parts": []map[string]any{{"text": text}},
			"role":  "model",
		},
		"finishReason": "STOP",
	}
	if grounding != nil {
		candidate["groundingMetadata"] = grounding
	}
	return map[string]any{"candidates": []map[string]any{candidate}}
}

func TestGeminiGenerate(t *testing.T) {
	payload := `{"question": "Which river is the longest?", "options": ["Nile", "Amazon", "Yangtze", "Mississippi"], "correctAnswerIndex": 0, "explanation": "The Nile edges out the Amazon."}`
	grounding := map[string]any{
		"groundingChunks": []map[string]any{
			{"web": map[string]any{"uri": "https://example.com/rivers", "title": "Rivers"}},
			{"web": map[string]any{"uri": "https://example.com/untitled", "title": ""}},
			{"web": map[string]any{"uri": "", "title": "No URI"}},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "generateContent") {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		var req struct {
			SystemInstruction struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"systemInstruction"`
			GenerationConfig struct {
				ResponseMIMEType string `json:"responseMimeType"`
			} `json:"generationConfig"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.SystemInstruction.Parts) != 1 || !strings.Contains(req.SystemInstruction.Parts[0].Text, "professor") {
			t.Fatalf("expected personality prompt as system instruction, got %#v", req.SystemInstruction)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiQuestionResponse(payload, grounding))
	}))
	defer server.Close()

	gen, err := newGeminiGenerator(context.Background(), "test-key", "gemini-test", &generatorOptions{baseURL: server.URL})
	if err != nil {
		t.Fatalf("newGeminiGenerator failed: %v", err)
	}

	professor, _ := trivia.FindPersonality("professor")
	q, err := gen.Generate(context.Background(), professor)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if q.Text != "Which river is the longest?" {
		t.Fatalf("unexpected question text: %q", q.Text)
	}
	if q.CorrectAnswerIndex != 0 {
		t.Fatalf("unexpected answer index: %d", q.CorrectAnswerIndex)
	}
	if len(q.Sources) != 1 || q.Sources[0].URI != "https://example.com/rivers" {
		t.Fatalf("expected one filtered source, got %+v", q.Sources)
	}
}

func TestGeminiGenerateEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiQuestionResponse("", nil))
	}))
	defer server.Close()

	gen, err := newGeminiGenerator(context.Background(), "test-key", "gemini-test", &generatorOptions{baseURL: server.URL})
	if err != nil {
		t.Fatalf("newGeminiGenerator failed: %v", err)
	}

	_, err = gen.Generate(context.Background(), trivia.Personalities[0])
	if err == nil {
		t.Fatal("expected error for empty response, got nil")
	}
	if !strings.Contains(err.Error(), "empty response") {
		t.Fatalf("expected 'empty response' in error, got %q", err.Error())
	}
}

func TestGeminiGenerateSchemaViolation(t *testing.T) {
	payload := `{"question": "q?", "options": ["a", "b"], "correctAnswerIndex": 0, "explanation": "e"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiQuestionResponse(payload, nil))
	}))
	defer server.Close()

	gen, err := newGeminiGenerator(context.Background(), "test-key", "gemini-test", &generatorOptions{baseURL: server.URL})
	if err != nil {
		t.Fatalf("newGeminiGenerator failed: %v", err)
	}

	_, err = gen.Generate(context.Background(), trivia.Personalities[0])
	if err == nil {
		t.Fatal("expected error for schema violation, got nil")
	}
	if !strings.Contains(err.Error(), "invalid question") {
		t.Fatalf("expected 'invalid question' in error, got %q", err.Error())
	}
}
