// Package listen turns one "start listening" gesture into a live microphone
// stream feeding a transcription engine, and delivers exactly one final
// transcript back to the caller. It owns the transcription connection, the
// capture stream, and the encoding stage, and guarantees all three are
// released on every exit path.
package listen

import (
	"context"
	"errors"
	"io"
)

// ErrAlreadyListening is returned by Start while a connection is open.
var ErrAlreadyListening = errors.New("already listening")

// Event is one inbound message from a transcription engine. Exactly one of
// the fields is meaningful: an incremental transcript fragment, the
// turn-complete signal, or a stream error.
type Event struct {
	Fragment     string
	TurnComplete bool
	Err          error
}

// Conn is an open transcription connection. Events closes when the
// connection is done.
type Conn interface {
	SendAudio(p []byte) error
	Events() <-chan Event
	Close() error
}

// Engine dials a live transcription connection.
type Engine interface {
	Connect(ctx context.Context) (Conn, error)
}

// Mic is an open microphone capture stream.
type Mic interface {
	Start() error
	Stop() error
	SampleRate() int
	Stream(w io.Writer) error
}

// MicOpener acquires a microphone.
type MicOpener func() (Mic, error)

// StageFactory builds the processing stage that forwards 16kHz PCM frames
// from the capture stream to the connection.
type StageFactory func(srcRate int, send func([]byte) error) (io.WriteCloser, error)
