package audio

import (
	"fmt"
	"sync"

	resampling "github.com/tphakala/go-audio-resampling"
)

// TargetSampleRate is the rate the transcription capability expects.
const TargetSampleRate = 16000

// Pipeline is the capture processing stage: it accepts PCM16-LE frames at
// the mic's native rate, resamples them to 16kHz mono when needed, and
// forwards each frame to the sink as it arrives. Frames are streamed, never
// accumulated. After Close, writes are rejected.
type Pipeline struct {
	send func([]byte) error

	mu        sync.Mutex
	resampler resampling.Resampler // nil when the source is already 16kHz
	closed    bool
}

// NewPipeline builds a stage converting srcRate mono PCM to 16kHz mono PCM.
func NewPipeline(srcRate int, send func([]byte) error) (*Pipeline, error) {
	p := &Pipeline{send: send}

	if srcRate != TargetSampleRate {
		rs, err := resampling.New(&resampling.Config{
			InputRate:  float64(srcRate),
			OutputRate: float64(TargetSampleRate),
			Channels:   1,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("create resampler: %w", err)
		}
		p.resampler = rs
	}

	return p, nil
}

// Write forwards one captured frame downstream, resampling if needed.
func (p *Pipeline) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, fmt.Errorf("pipeline closed")
	}

	out := b
	if p.resampler != nil {
		resampled, err := p.resampleLocked(b)
		if err != nil {
			return 0, err
		}
		if len(resampled) == 0 {
			return len(b), nil
		}
		out = resampled
	}

	if err := p.send(out); err != nil {
		return 0, fmt.Errorf("forward audio frame: %w", err)
	}
	return len(b), nil
}

// Close disconnects the stage. Idempotent.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *Pipeline) resampleLocked(b []byte) ([]byte, error) {
	samples := make([]float64, len(b)/2)
	for i := range samples {
		s := int16(b[i*2]) | int16(b[i*2+1])<<8
		samples[i] = float64(s) / 32768.0
	}

	out, err := p.resampler.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	encoded := make([]byte, len(out)*2)
	for i, s := range out {
		v := int16(s * 32767.0)
		if s > 1.0 {
			v = 32767
		} else if s < -1.0 {
			v = -32768
		}
		encoded[i*2] = byte(v)
		encoded[i*2+1] = byte(v >> 8)
	}
	return encoded, nil
}
