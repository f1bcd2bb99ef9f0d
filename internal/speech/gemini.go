package speech

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiSynthesizer renders narration through a Gemini TTS model. The model
// returns raw PCM at a fixed rate, which the caller configures to match what
// the API emits.
type GeminiSynthesizer struct {
	client     *genai.Client
	model      string
	sampleRate int
}

// NewGeminiSynthesizer wraps an existing client. sampleRate is the PCM rate
// the chosen TTS model emits.
func NewGeminiSynthesizer(client *genai.Client, model string, sampleRate int) *GeminiSynthesizer {
	return &GeminiSynthesizer{client: client, model: model, sampleRate: sampleRate}
}

func (s *GeminiSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, int, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(text), config)
	if err != nil {
		return nil, 0, fmt.Errorf("synthesize speech: %w", err)
	}

	pcm := inlineAudio(resp)
	if len(pcm) == 0 {
		return nil, 0, fmt.Errorf("synthesize speech: response carried no audio")
	}
	return pcm, s.sampleRate, nil
}

func inlineAudio(resp *genai.GenerateContentResponse) []byte {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var pcm []byte
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil {
			pcm = append(pcm, part.InlineData.Data...)
		}
	}
	return pcm
}
