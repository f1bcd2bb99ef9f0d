package listen

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
)

// Session coordinates one listening connection at a time. Every connection
// carries a monotonically increasing generation; events tagged with a stale
// generation are discarded, which closes the race between cancellation and
// an in-flight completion.
type Session struct {
	engine   Engine
	openMic  MicOpener
	newStage StageFactory

	mu     sync.Mutex
	gen    uint64
	active bool
	conn   Conn
	mic    Mic
	stage  io.WriteCloser
	cancel context.CancelFunc
	buf    strings.Builder
}

// NewSession wires a transcription engine to a microphone source.
func NewSession(engine Engine, openMic MicOpener, newStage StageFactory) *Session {
	return &Session{engine: engine, openMic: openMic, newStage: newStage}
}

// Start opens a listening connection and begins streaming captured audio.
// Acquisition happens in the background; a failure at any step releases
// everything already acquired and reports through onError. onTranscript is
// invoked at most once per Start, with the full accumulated transcript,
// after which the session has already torn itself down.
func (s *Session) Start(onTranscript func(string), onError func(error)) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return ErrAlreadyListening
	}
	s.active = true
	s.gen++
	gen := s.gen
	s.buf.Reset()
	s.mu.Unlock()

	go s.acquire(gen, onTranscript, onError)
	return nil
}

// Stop cancels the current connection and releases its resources in reverse
// acquisition order. Idempotent; safe to call when nothing is active.
func (s *Session) Stop() {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	s.finish(gen)
}

// acquire obtains, in order: transcription connection, microphone, encoding
// stage. On failure it releases whatever it already holds.
func (s *Session) acquire(gen uint64, onTranscript func(string), onError func(error)) {
	ctx, cancel := context.WithCancel(context.Background())

	conn, err := s.engine.Connect(ctx)
	if err != nil {
		cancel()
		s.abandon(gen)
		onError(fmt.Errorf("connect transcription: %w", err))
		return
	}

	mic, err := s.openMic()
	if err != nil {
		releaseAll(nil, nil, conn, cancel)
		s.abandon(gen)
		onError(fmt.Errorf("open microphone: %w", err))
		return
	}

	stage, err := s.newStage(mic.SampleRate(), conn.SendAudio)
	if err != nil {
		releaseAll(nil, mic, conn, cancel)
		s.abandon(gen)
		onError(fmt.Errorf("create audio stage: %w", err))
		return
	}

	if err := mic.Start(); err != nil {
		releaseAll(stage, mic, conn, cancel)
		s.abandon(gen)
		onError(fmt.Errorf("start microphone: %w", err))
		return
	}

	s.mu.Lock()
	if gen != s.gen || !s.active {
		// Stop raced the acquisition; release everything we just got.
		s.mu.Unlock()
		releaseAll(stage, mic, conn, cancel)
		return
	}
	s.conn, s.mic, s.stage, s.cancel = conn, mic, stage, cancel
	s.mu.Unlock()

	go s.pumpEvents(gen, conn, onTranscript, onError)
	go s.pumpAudio(gen, mic, stage, onError)
}

// pumpAudio forwards captured frames through the stage until the stream
// ends. A stream error on the current generation tears the session down.
func (s *Session) pumpAudio(gen uint64, mic Mic, stage io.Writer, onError func(error)) {
	err := mic.Stream(stage)
	if err == nil {
		return
	}
	if _, current := s.finish(gen); current {
		onError(fmt.Errorf("microphone stream: %w", err))
	}
}

// pumpEvents accumulates transcript fragments until the engine signals turn
// complete, then flushes the full buffer upward exactly once.
func (s *Session) pumpEvents(gen uint64, conn Conn, onTranscript func(string), onError func(error)) {
	for ev := range conn.Events() {
		switch {
		case ev.Err != nil:
			if _, current := s.finish(gen); current {
				onError(fmt.Errorf("transcription stream: %w", ev.Err))
			}
			return
		case ev.TurnComplete:
			if text, current := s.finish(gen); current {
				onTranscript(text)
			}
			return
		case ev.Fragment != "":
			s.append(gen, ev.Fragment)
		}
	}
}

func (s *Session) append(gen uint64, fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || !s.active {
		return // late event for a cancelled connection
	}
	s.buf.WriteString(fragment)
}

// abandon clears the active flag after a failed acquisition.
func (s *Session) abandon(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen && s.active {
		s.active = false
		s.buf.Reset()
	}
}

// finish tears down the current connection if gen is still current. It
// returns the accumulated transcript and whether this call performed the
// teardown.
func (s *Session) finish(gen uint64) (string, bool) {
	s.mu.Lock()
	if gen != s.gen || !s.active {
		s.mu.Unlock()
		return "", false
	}
	s.gen++
	s.active = false
	text := s.buf.String()
	s.buf.Reset()
	conn, mic, stage, cancel := s.conn, s.mic, s.stage, s.cancel
	s.conn, s.mic, s.stage, s.cancel = nil, nil, nil, nil
	s.mu.Unlock()

	releaseAll(stage, mic, conn, cancel)
	return text, true
}

// releaseAll releases in reverse acquisition order: stage, mic, connection.
func releaseAll(stage io.Closer, mic Mic, conn Conn, cancel context.CancelFunc) {
	if stage != nil {
		if err := stage.Close(); err != nil {
			log.Printf("warning: close audio stage: %v", err)
		}
	}
	if mic != nil {
		if err := mic.Stop(); err != nil {
			log.Printf("warning: stop microphone: %v", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			log.Printf("warning: close transcription connection: %v", err)
		}
	}
	if cancel != nil {
		cancel()
	}
}
