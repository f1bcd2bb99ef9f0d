package listen

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

const pcmMimeType = "audio/pcm;rate=16000"

// GeminiEngine dials Gemini Live sessions with input audio transcription
// enabled. The client is long-lived and shared; each Connect opens a fresh
// session.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

func NewGeminiEngine(client *genai.Client, model string) *GeminiEngine {
	return &GeminiEngine{client: client, model: model}
}

func (e *GeminiEngine) Connect(ctx context.Context) (Conn, error) {
	config := &genai.LiveConnectConfig{
		ResponseModalities:      []genai.Modality{genai.ModalityAudio},
		InputAudioTranscription: &genai.AudioTranscriptionConfig{},
	}

	session, err := e.client.Live.Connect(ctx, e.model, config)
	if err != nil {
		return nil, fmt.Errorf("connect live session: %w", err)
	}

	c := &geminiConn{
		session: session,
		events:  make(chan Event, 16),
		done:    make(chan struct{}),
	}
	go c.receive()
	return c, nil
}

type geminiConn struct {
	session *genai.Session
	events  chan Event
	done    chan struct{}
	once    sync.Once
}

func (c *geminiConn) SendAudio(p []byte) error {
	return c.session.SendRealtimeInput(genai.LiveRealtimeInput{
		Media: &genai.Blob{Data: p, MIMEType: pcmMimeType},
	})
}

func (c *geminiConn) Events() <-chan Event { return c.events }

func (c *geminiConn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.session.Close()
	})
	return err
}

func (c *geminiConn) receive() {
	defer close(c.events)
	for {
		msg, err := c.session.Receive()
		if err != nil {
			c.emit(Event{Err: err})
			return
		}
		if msg.ServerContent == nil {
			continue
		}
		if t := msg.ServerContent.InputTranscription; t != nil && t.Text != "" {
			c.emit(Event{Fragment: t.Text})
		}
		if msg.ServerContent.TurnComplete {
			c.emit(Event{TurnComplete: true})
			return
		}
	}
}

func (c *geminiConn) emit(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}
