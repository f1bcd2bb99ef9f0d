package audio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Speaker plays PCM16-LE mono audio through the default output device.
// The zero value is ready to use; PortAudio must already be initialized.
type Speaker struct {
	framesPerBuffer int
}

// NewSpeaker returns a player with the given output buffer size in frames.
func NewSpeaker(framesPerBuffer int) *Speaker {
	if framesPerBuffer <= 0 {
		framesPerBuffer = DefaultFramesPerBuffer
	}
	return &Speaker{framesPerBuffer: framesPerBuffer}
}

// Play blocks until the payload has been written to the device or ctx is
// cancelled. The payload is little-endian 16-bit mono PCM at sampleRate.
func (s *Speaker) Play(ctx context.Context, pcm []byte, sampleRate int) error {
	if len(pcm) == 0 {
		return nil
	}
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	buf := make([]int16, s.framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), len(buf), buf)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	defer func() { _ = stream.Close() }()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start output stream: %w", err)
	}
	defer func() { _ = stream.Stop() }()

	samples := decodePCM16(pcm)
	for offset := 0; offset < len(samples); offset += len(buf) {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := copy(buf, samples[offset:])
		for i := n; i < len(buf); i++ {
			buf[i] = 0
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("write output stream: %w", err)
		}
	}

	return nil
}

func decodePCM16(b []byte) []int16 {
	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(b[i*2]) | int16(b[i*2+1])<<8
	}
	return samples
}
