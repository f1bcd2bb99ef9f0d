package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TOTAL_QUESTIONS", "FEEDBACK_DELAY", "QUESTION_PROVIDER",
		"TTS_MODEL", "LIVE_MODEL", "LISTEN_ENGINE",
		"MIC_SAMPLE_RATE", "MIC_SAMPLE_RATES", "WEB_ADDR",
		"GEMINI_API_KEY", "DEEPGRAM_API_KEY", "OPENAI_API_KEY", "CONFIG",
	} {
		t.Setenv(EnvPrefix+key, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, _, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TotalQuestions != 5 {
		t.Fatalf("expected default total_questions 5, got %d", cfg.TotalQuestions)
	}
	if cfg.FeedbackDelay != "2s" {
		t.Fatalf("expected default feedback_delay, got %q", cfg.FeedbackDelay)
	}
	if cfg.QuestionProvider != "gemini/gemini-2.5-flash" {
		t.Fatalf("expected default question_provider, got %q", cfg.QuestionProvider)
	}
	if cfg.ListenEngine != "gemini" {
		t.Fatalf("expected default listen_engine, got %q", cfg.ListenEngine)
	}
	if cfg.MicSampleRate != 16000 {
		t.Fatalf("expected default mic_sample_rate 16000, got %d", cfg.MicSampleRate)
	}
	if cfg.TTSSampleRate != 24000 {
		t.Fatalf("expected default tts_sample_rate 24000, got %d", cfg.TTSSampleRate)
	}
}

func TestYAMLLoading(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yamlContent := `
total_questions: 10
feedback_delay: 3s
question_provider: gemini/gemini-2.0-flash
listen_engine: gemini
mic_sample_rate: 48000
mic_sample_rates: [44100, 32000]
web_addr: 127.0.0.1:9090
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TotalQuestions != 10 {
		t.Fatalf("expected yaml total_questions, got %d", cfg.TotalQuestions)
	}
	if cfg.FeedbackDelay != "3s" {
		t.Fatalf("expected yaml feedback_delay, got %q", cfg.FeedbackDelay)
	}
	if cfg.QuestionProvider != "gemini/gemini-2.0-flash" {
		t.Fatalf("expected yaml question_provider, got %q", cfg.QuestionProvider)
	}
	if cfg.MicSampleRate != 48000 {
		t.Fatalf("expected yaml mic_sample_rate, got %d", cfg.MicSampleRate)
	}
	if !reflect.DeepEqual(cfg.MicSampleRates, []int{44100, 32000}) {
		t.Fatalf("expected yaml mic_sample_rates, got %v", cfg.MicSampleRates)
	}
	if cfg.WebAddr != "127.0.0.1:9090" {
		t.Fatalf("expected yaml web_addr, got %q", cfg.WebAddr)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yamlContent := `
total_questions: 10
feedback_delay: 3s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	clearEnv(t)
	t.Setenv(EnvPrefix+"TOTAL_QUESTIONS", "7")
	t.Setenv(EnvPrefix+"FEEDBACK_DELAY", "1500ms")
	t.Setenv(EnvPrefix+"WEB_ADDR", "127.0.0.1:8081")

	cfg, _, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TotalQuestions != 7 {
		t.Fatalf("expected env override for total_questions, got %d", cfg.TotalQuestions)
	}
	if cfg.FeedbackDelay != "1500ms" {
		t.Fatalf("expected env override for feedback_delay, got %q", cfg.FeedbackDelay)
	}
	if cfg.WebAddr != "127.0.0.1:8081" {
		t.Fatalf("expected env override for web_addr, got %q", cfg.WebAddr)
	}
}

func TestSecretsFromEnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPrefix+"GEMINI_API_KEY", "gm-secret")
	t.Setenv(EnvPrefix+"DEEPGRAM_API_KEY", "dg-secret")
	t.Setenv(EnvPrefix+"OPENAI_API_KEY", "oai-secret")

	cfg, _, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.GeminiAPIKey != "gm-secret" {
		t.Fatalf("expected gemini key from env, got %q", cfg.GeminiAPIKey)
	}
	if cfg.DeepgramAPIKey != "dg-secret" {
		t.Fatalf("expected deepgram key from env, got %q", cfg.DeepgramAPIKey)
	}
	if cfg.OpenAIAPIKey != "oai-secret" {
		t.Fatalf("expected openai key from env, got %q", cfg.OpenAIAPIKey)
	}
}

func TestSecretsIgnoredInYAML(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yamlContent := `
gemini_api_key: should-be-ignored
deepgram_api_key: also-ignored
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.GeminiAPIKey != "" {
		t.Fatalf("expected empty gemini key (yaml should be ignored), got %q", cfg.GeminiAPIKey)
	}
	if cfg.DeepgramAPIKey != "" {
		t.Fatalf("expected empty deepgram key (yaml should be ignored), got %q", cfg.DeepgramAPIKey)
	}
}

func TestDeepgramEngineWithoutKeyFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPrefix+"LISTEN_ENGINE", "deepgram")

	cfg, warnings, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenEngine != "gemini" {
		t.Fatalf("expected fallback to gemini engine, got %q", cfg.ListenEngine)
	}
	var found bool
	for _, w := range warnings {
		if strings.Contains(w, "Deepgram") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Deepgram warning, got: %v", warnings)
	}
}

func TestOpenAIProviderWithoutKeyFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPrefix+"QUESTION_PROVIDER", "openai/gpt-4o-mini")

	cfg, warnings, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.QuestionProvider != "gemini/gemini-2.5-flash" {
		t.Fatalf("expected fallback question provider, got %q", cfg.QuestionProvider)
	}
	if len(warnings) == 0 || !strings.Contains(warnings[0], "OpenAI") {
		t.Fatalf("expected OpenAI warning, got: %v", warnings)
	}
}

func TestInvalidFeedbackDelayWarning(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPrefix+"FEEDBACK_DELAY", "not-a-duration")

	cfg, warnings, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(warnings) != 1 || !strings.Contains(warnings[0], "feedback_delay") {
		t.Fatalf("expected feedback_delay warning, got: %v", warnings)
	}

	if cfg.ParsedFeedbackDelay() != 2*time.Second {
		t.Fatalf("expected fallback to 2s, got %v", cfg.ParsedFeedbackDelay())
	}
}

func TestMissingConfigFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, _, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("Load failed for missing file: %v", err)
	}
	if cfg.TotalQuestions != 5 {
		t.Fatalf("expected defaults for missing file, got %d", cfg.TotalQuestions)
	}
}

func TestSampleRateCandidates(t *testing.T) {
	cfg := defaults()
	cfg.MicSampleRate = 48000
	cfg.MicSampleRates = []int{44100, 48000, -1}

	got := cfg.SampleRateCandidates()
	want := []int{48000, 44100, 16000, 32000, 24000}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SampleRateCandidates = %v, want %v", got, want)
	}
}
