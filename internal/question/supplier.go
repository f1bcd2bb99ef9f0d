package question

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tmorr/voxtrivia/internal/trivia"
)

// ErrExhausted is returned by Fetch when every generation attempt failed.
var ErrExhausted = errors.New("question generation attempts exhausted")

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = 500 * time.Millisecond
	defaultMaxDelay    = 8 * time.Second
)

// apologyLine is spoken between failed attempts, staying in character.
const apologyLine = "I seem to have run into a technical difficulty. Let me try another question."

// Speaker narrates host lines. Failures are the speaker's problem, not ours.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Supplier fetches questions with bounded retry and exponential backoff.
// Generation failure is never surfaced as a raw error to the player; between
// attempts it speaks a brief apology through the speaker, and only after the
// attempt cap does it give up with ErrExhausted.
type Supplier struct {
	gen         Generator
	speaker     Speaker
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSupplier wraps gen. speaker may be nil to disable spoken apologies.
func NewSupplier(gen Generator, speaker Speaker) *Supplier {
	return &Supplier{
		gen:         gen,
		speaker:     speaker,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		maxDelay:    defaultMaxDelay,
		sleep:       sleepCtx,
	}
}

// Fetch obtains one valid question for the personality, retrying silently on
// any generation failure. The returned question always passes Validate.
func (s *Supplier) Fetch(ctx context.Context, p trivia.Personality) (*trivia.Question, error) {
	delay := s.baseDelay

	for attempt := 1; ; attempt++ {
		q, err := s.gen.Generate(ctx, p)
		if err == nil {
			return q, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		log.Printf("warning: question generation attempt %d/%d failed: %v", attempt, s.maxAttempts, err)
		if attempt >= s.maxAttempts {
			return nil, fmt.Errorf("%w: last error: %v", ErrExhausted, err)
		}

		if s.speaker != nil {
			_ = s.speaker.Speak(ctx, apologyLine)
		}
		if err := s.sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
		if delay > s.maxDelay {
			delay = s.maxDelay
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
