// Package speech turns narration text into audible output. A Synthesizer
// produces raw PCM for a voice; a Player pushes it to the speakers; Channel
// serializes the two so the host never overlaps its own lines.
package speech

import "context"

// Synthesizer renders text to 16-bit little-endian mono PCM.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (pcm []byte, sampleRate int, err error)
}

// Player plays raw PCM at the given sample rate, blocking until done.
type Player interface {
	Play(ctx context.Context, pcm []byte, sampleRate int) error
}
