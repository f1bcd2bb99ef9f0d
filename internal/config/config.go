package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the namespace prefix for all voxtrivia environment variables.
const EnvPrefix = "VOXTRIVIA_"

// Config holds all application configuration. Secrets (API keys) are loaded
// exclusively from environment variables and never appear in the config file.
type Config struct {
	TotalQuestions   int    `yaml:"total_questions"`
	FeedbackDelay    string `yaml:"feedback_delay"`
	QuestionProvider string `yaml:"question_provider"`
	TTSModel         string `yaml:"tts_model"`
	TTSSampleRate    int    `yaml:"tts_sample_rate"`
	LiveModel        string `yaml:"live_model"`
	ListenEngine     string `yaml:"listen_engine"`
	MicSampleRate    int    `yaml:"mic_sample_rate"`
	MicSampleRates   []int  `yaml:"mic_sample_rates"`
	WebAddr          string `yaml:"web_addr"`

	// Secrets — env vars only, never serialized to YAML.
	GeminiAPIKey   string `yaml:"-"`
	DeepgramAPIKey string `yaml:"-"`
	OpenAIAPIKey   string `yaml:"-"`
}

func defaults() Config {
	return Config{
		TotalQuestions:   5,
		FeedbackDelay:    "2s",
		QuestionProvider: "gemini/gemini-2.5-flash",
		TTSModel:         "gemini-2.5-flash-preview-tts",
		TTSSampleRate:    24000,
		LiveModel:        "gemini-2.5-flash-native-audio-preview-09-2025",
		ListenEngine:     "gemini",
		MicSampleRate:    16000,
		MicSampleRates:   []int{48000, 44100, 32000, 24000},
	}
}

// Load reads configuration from a YAML file (if it exists), applies
// environment variable overrides, loads secrets, and validates the result.
// It returns the config, any validation warnings, and an error if the file
// exists but cannot be read or parsed.
func Load(path string) (Config, []string, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, nil, fmt.Errorf("read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	loadSecrets(&cfg)

	warnings := validate(&cfg)
	return cfg, warnings, nil
}

// ParsedFeedbackDelay returns FeedbackDelay as a time.Duration,
// falling back to 2s if the value is invalid.
func (c *Config) ParsedFeedbackDelay() time.Duration {
	d, err := time.ParseDuration(c.FeedbackDelay)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// SampleRateCandidates returns a deduplicated ordered list of mic sample
// rates to try: preferred rate first, then configured alternatives, then
// defaults. 16000 leads the hardcoded rates because the transcription
// capability wants 16kHz input and a native-rate capture avoids resampling.
func (c *Config) SampleRateCandidates() []int {
	hardcoded := []int{16000, 48000, 44100, 32000, 24000}

	combined := make([]int, 0, 1+len(c.MicSampleRates)+len(hardcoded))
	combined = append(combined, c.MicSampleRate)
	combined = append(combined, c.MicSampleRates...)
	combined = append(combined, hardcoded...)

	seen := make(map[int]struct{}, len(combined))
	result := make([]int, 0, len(combined))
	for _, rate := range combined {
		if rate <= 0 {
			continue
		}
		if _, ok := seen[rate]; ok {
			continue
		}
		seen[rate] = struct{}{}
		result = append(result, rate)
	}
	return result
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "TOTAL_QUESTIONS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			cfg.TotalQuestions = n
		}
	}
	if v := os.Getenv(EnvPrefix + "FEEDBACK_DELAY"); v != "" {
		cfg.FeedbackDelay = v
	}
	if v := os.Getenv(EnvPrefix + "QUESTION_PROVIDER"); v != "" {
		cfg.QuestionProvider = v
	}
	if v := os.Getenv(EnvPrefix + "TTS_MODEL"); v != "" {
		cfg.TTSModel = v
	}
	if v := os.Getenv(EnvPrefix + "LIVE_MODEL"); v != "" {
		cfg.LiveModel = v
	}
	if v := os.Getenv(EnvPrefix + "LISTEN_ENGINE"); v != "" {
		cfg.ListenEngine = v
	}
	if v := os.Getenv(EnvPrefix + "MIC_SAMPLE_RATE"); v != "" {
		if rate, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && rate > 0 {
			cfg.MicSampleRate = rate
		}
	}
	if v := os.Getenv(EnvPrefix + "MIC_SAMPLE_RATES"); v != "" {
		cfg.MicSampleRates = parseSampleRates(v)
	}
	if v := os.Getenv(EnvPrefix + "WEB_ADDR"); v != "" {
		cfg.WebAddr = v
	}
}

func loadSecrets(cfg *Config) {
	cfg.GeminiAPIKey = os.Getenv(EnvPrefix + "GEMINI_API_KEY")
	cfg.DeepgramAPIKey = os.Getenv(EnvPrefix + "DEEPGRAM_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv(EnvPrefix + "OPENAI_API_KEY")
}

func validate(cfg *Config) []string {
	var warnings []string

	if _, err := time.ParseDuration(cfg.FeedbackDelay); err != nil {
		warnings = append(warnings, fmt.Sprintf("Invalid feedback_delay %q — using default 2s.", cfg.FeedbackDelay))
	}
	if cfg.TotalQuestions <= 0 {
		warnings = append(warnings, fmt.Sprintf("Invalid total_questions %d — using default 5.", cfg.TotalQuestions))
		cfg.TotalQuestions = 5
	}
	if strings.HasPrefix(cfg.QuestionProvider, "openai/") && cfg.OpenAIAPIKey == "" {
		warnings = append(warnings, "OpenAI API key not configured — falling back to the Gemini question provider. Set "+EnvPrefix+"OPENAI_API_KEY.")
		cfg.QuestionProvider = defaults().QuestionProvider
	}
	switch cfg.ListenEngine {
	case "gemini":
	case "deepgram":
		if cfg.DeepgramAPIKey == "" {
			warnings = append(warnings, "Deepgram API key not configured — falling back to the Gemini listen engine. Set "+EnvPrefix+"DEEPGRAM_API_KEY.")
			cfg.ListenEngine = "gemini"
		}
	default:
		warnings = append(warnings, fmt.Sprintf("Unknown listen_engine %q — using gemini.", cfg.ListenEngine))
		cfg.ListenEngine = "gemini"
	}

	return warnings
}

func parseSampleRates(raw string) []int {
	parts := strings.Split(raw, ",")
	seen := make(map[int]struct{}, len(parts))
	result := make([]int, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		rate, err := strconv.Atoi(trimmed)
		if err != nil || rate <= 0 {
			continue
		}
		if _, ok := seen[rate]; ok {
			continue
		}
		seen[rate] = struct{}{}
		result = append(result, rate)
	}

	return result
}
