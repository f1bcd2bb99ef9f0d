package listen

import (
	"context"
	"fmt"
	"strings"
	"sync"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/websocket/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	dgclient "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"
)

var dgInitOnce sync.Once

// DeepgramEngine is the alternate transcription backend. It speaks the same
// 16kHz linear16 stream as the Gemini engine but over Deepgram's websocket
// API, mapping is_final results to fragments and speech_final/UtteranceEnd
// to the turn-complete signal.
type DeepgramEngine struct {
	apiKey string
	model  string
}

func NewDeepgramEngine(apiKey, model string) *DeepgramEngine {
	dgInitOnce.Do(func() {
		dgclient.Init(dgclient.InitLib{LogLevel: dgclient.LogLevelDefault})
	})
	if model == "" {
		model = "nova-2"
	}
	return &DeepgramEngine{apiKey: apiKey, model: model}
}

func (e *DeepgramEngine) Connect(ctx context.Context) (Conn, error) {
	c := &deepgramConn{events: make(chan Event, 16), done: make(chan struct{})}

	cOptions := &interfaces.ClientOptions{EnableKeepAlive: true}
	tOptions := &interfaces.LiveTranscriptionOptions{
		Model:       e.model,
		Language:    "en-US",
		Punctuate:   true,
		SmartFormat: true,
		Encoding:    "linear16",
		SampleRate:  16000,
		Channels:    1,
	}

	client, err := dgclient.NewWSUsingCallback(ctx, e.apiKey, cOptions, tOptions, transcriptCallback{conn: c})
	if err != nil {
		return nil, fmt.Errorf("create deepgram client: %w", err)
	}
	if ok := client.Connect(); !ok {
		return nil, fmt.Errorf("deepgram connect failed")
	}

	c.client = client
	return c, nil
}

type deepgramConn struct {
	client interface {
		Write(p []byte) (int, error)
		Stop()
	}
	events chan Event
	done   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	closed bool
}

func (c *deepgramConn) SendAudio(p []byte) error {
	_, err := c.client.Write(p)
	return err
}

func (c *deepgramConn) Events() <-chan Event { return c.events }

func (c *deepgramConn) Close() error {
	c.once.Do(func() {
		if c.client != nil {
			c.client.Stop()
		}
		close(c.done)
		c.mu.Lock()
		c.closed = true
		close(c.events)
		c.mu.Unlock()
	})
	return nil
}

// emit drops events once the connection is closed. Fragments are
// best-effort under backpressure, but terminal events (turn complete, error)
// must land: losing one would strand the session in its listening state, so
// those block until the consumer drains or the connection closes.
func (c *deepgramConn) emit(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if ev.TurnComplete || ev.Err != nil {
		select {
		case c.events <- ev:
		case <-c.done:
		}
		return
	}
	select {
	case c.events <- ev:
	default:
	}
}

// transcriptCallback adapts Deepgram's callback surface to the engine event
// channel.
type transcriptCallback struct {
	conn *deepgramConn
}

func (t transcriptCallback) Message(mr *api.MessageResponse) error {
	if len(mr.Channel.Alternatives) == 0 {
		return nil
	}
	sentence := strings.TrimSpace(mr.Channel.Alternatives[0].Transcript)
	if !mr.IsFinal {
		return nil
	}
	if sentence != "" {
		t.conn.emit(Event{Fragment: sentence + " "})
	}
	if mr.SpeechFinal {
		t.conn.emit(Event{TurnComplete: true})
	}
	return nil
}

func (t transcriptCallback) UtteranceEnd(*api.UtteranceEndResponse) error {
	t.conn.emit(Event{TurnComplete: true})
	return nil
}

func (t transcriptCallback) Error(er *api.ErrorResponse) error {
	t.conn.emit(Event{Err: fmt.Errorf("deepgram error %s: %s", er.ErrCode, er.Description)})
	return nil
}

func (t transcriptCallback) Open(*api.OpenResponse) error                { return nil }
func (t transcriptCallback) Metadata(*api.MetadataResponse) error       { return nil }
func (t transcriptCallback) SpeechStarted(*api.SpeechStartedResponse) error { return nil }
func (t transcriptCallback) Close(*api.CloseResponse) error             { return nil }
func (t transcriptCallback) UnhandledEvent([]byte) error                { return nil }
