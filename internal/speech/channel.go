package speech

import (
	"context"
	"log"
	"sync"
)

// Channel speaks one line at a time through a single voice. Synthesis or
// playback failures are logged and swallowed so a flaky speaker never stalls
// a running game; only context cancellation is surfaced to the caller.
type Channel struct {
	synth  Synthesizer
	player Player

	speakMu sync.Mutex // serializes playback
	voiceMu sync.Mutex
	voice   string
}

// NewChannel builds a channel speaking with the given prebuilt voice.
func NewChannel(synth Synthesizer, player Player, voice string) *Channel {
	return &Channel{synth: synth, player: player, voice: voice}
}

// SetVoice switches the voice used for subsequent lines.
func (c *Channel) SetVoice(voice string) {
	c.voiceMu.Lock()
	c.voice = voice
	c.voiceMu.Unlock()
}

// Speak synthesizes and plays one line, blocking until playback finishes.
// Concurrent callers queue behind each other so lines never overlap.
func (c *Channel) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	c.speakMu.Lock()
	defer c.speakMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	c.voiceMu.Lock()
	voice := c.voice
	c.voiceMu.Unlock()

	pcm, rate, err := c.synth.Synthesize(ctx, text, voice)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("warning: speech synthesis failed: %v", err)
		return nil
	}

	if err := c.player.Play(ctx, pcm, rate); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("warning: speech playback failed: %v", err)
	}
	return nil
}
