// Package audio owns the PortAudio device surface: microphone capture,
// speaker playback, and the capture pipeline that feeds transcription.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"

	"github.com/gordonklaus/portaudio"
)

// DefaultFramesPerBuffer is the capture buffer size in frames.
const DefaultFramesPerBuffer = 4096

// Mic wraps a PortAudio capture stream opened at a known sample rate.
type Mic struct {
	stream *portaudio.Stream
	buf    []int16
	rate   int
}

// NewMic opens a PortAudio capture stream with the given sample rate and buffer size (in frames).
func NewMic(sampleRate, framesPerBuffer int) (*Mic, error) {
	buf := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), framesPerBuffer, buf)
	if err != nil {
		return nil, err
	}
	return &Mic{stream: stream, buf: buf, rate: sampleRate}, nil
}

// OpenMic tries each candidate sample rate in order and returns the first
// capture stream the device accepts.
func OpenMic(candidates []int, framesPerBuffer int) (*Mic, error) {
	var lastErr error
	for _, rate := range candidates {
		mic, err := NewMic(rate, framesPerBuffer)
		if err != nil {
			log.Printf("warning: microphone open failed at %d Hz: %v", rate, err)
			lastErr = err
			continue
		}
		return mic, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no candidate sample rates")
	}
	return nil, fmt.Errorf("open microphone: %w", lastErr)
}

func (m *Mic) Start() error { return m.stream.Start() }

func (m *Mic) Stop() error {
	if err := m.stream.Stop(); err != nil {
		return err
	}
	return m.stream.Close()
}

// SampleRate reports the rate the capture stream was opened at.
func (m *Mic) SampleRate() int { return m.rate }

// Stream reads from the mic and writes PCM16-LE to w until an error or stop.
func (m *Mic) Stream(w io.Writer) error {
	var out bytes.Buffer
	out.Grow(len(m.buf) * 2) // pre-allocate: int16 = 2 bytes per sample
	for {
		if err := m.stream.Read(); err != nil {
			return err
		}
		out.Reset()
		if err := binary.Write(&out, binary.LittleEndian, m.buf); err != nil {
			return err
		}
		if _, err := w.Write(out.Bytes()); err != nil {
			return err
		}
	}
}
