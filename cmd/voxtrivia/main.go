package main

import (
	"context"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gordonklaus/portaudio"
	"google.golang.org/genai"

	"github.com/tmorr/voxtrivia/internal/audio"
	"github.com/tmorr/voxtrivia/internal/config"
	"github.com/tmorr/voxtrivia/internal/game"
	"github.com/tmorr/voxtrivia/internal/listen"
	"github.com/tmorr/voxtrivia/internal/question"
	"github.com/tmorr/voxtrivia/internal/speech"
	"github.com/tmorr/voxtrivia/internal/trivia"
	"github.com/tmorr/voxtrivia/internal/tui"
	"github.com/tmorr/voxtrivia/internal/web"
)

func main() {
	log.Println("voxtrivia: starting")

	cfgPath := envOrDefault("VOXTRIVIA_CONFIG", "voxtrivia.yaml")
	cfg, warnings, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	for _, w := range warnings {
		log.Printf("warning: %s", w)
	}

	if cfg.GeminiAPIKey == "" {
		log.Fatalf("missing Gemini API key: set %sGEMINI_API_KEY", config.EnvPrefix)
	}

	if err := portaudio.Initialize(); err != nil {
		log.Fatalf("portaudio init failed: %v", err)
	}
	defer func() {
		if err := portaudio.Terminate(); err != nil {
			log.Printf("warning: portaudio terminate: %v", err)
		}
	}()

	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("genai client init failed: %v", err)
	}

	synth := speech.NewGeminiSynthesizer(client, cfg.TTSModel, cfg.TTSSampleRate)
	player := audio.NewSpeaker(audio.DefaultFramesPerBuffer)
	voice := speech.NewChannel(synth, player, trivia.Voices[0].TTSName)

	supplier, err := buildSupplier(ctx, cfg, voice)
	if err != nil {
		log.Fatalf("question provider init failed: %v", err)
	}

	session := listen.NewSession(
		buildListenEngine(client, cfg),
		func() (listen.Mic, error) {
			mic, err := audio.OpenMic(cfg.SampleRateCandidates(), audio.DefaultFramesPerBuffer)
			if err != nil {
				return nil, err
			}
			return mic, nil
		},
		func(srcRate int, send func([]byte) error) (io.WriteCloser, error) {
			return audio.NewPipeline(srcRate, send)
		},
	)

	relay := tui.NewRelay()
	sinks := game.MultiSink{relay}
	if cfg.WebAddr != "" {
		hub := web.NewHub()
		sinks = append(sinks, hub)
		go func() {
			if err := web.Serve(cfg.WebAddr, hub); err != nil {
				log.Printf("warning: spectator feed stopped: %v", err)
			}
		}()
	}

	engine := game.NewEngine(supplier, voice, session, sinks, game.Options{
		TotalQuestions: cfg.TotalQuestions,
		FeedbackDelay:  cfg.ParsedFeedbackDelay(),
	})
	defer engine.Close()

	program := tea.NewProgram(tui.New(engine), tea.WithAltScreen())
	relay.Attach(program)

	if _, err := program.Run(); err != nil {
		log.Fatalf("tui failed: %v", err)
	}
}

func buildSupplier(ctx context.Context, cfg config.Config, voice *speech.Channel) (*question.Supplier, error) {
	provider, model, err := question.ParseProvider(cfg.QuestionProvider)
	if err != nil {
		return nil, err
	}

	apiKey := cfg.GeminiAPIKey
	if provider == "openai" {
		apiKey = cfg.OpenAIAPIKey
	}

	gen, err := question.NewGenerator(ctx, provider, apiKey, model)
	if err != nil {
		return nil, err
	}
	return question.NewSupplier(gen, voice), nil
}

func buildListenEngine(client *genai.Client, cfg config.Config) listen.Engine {
	if cfg.ListenEngine == "deepgram" {
		return listen.NewDeepgramEngine(cfg.DeepgramAPIKey, "")
	}
	return listen.NewGeminiEngine(client, cfg.LiveModel)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
