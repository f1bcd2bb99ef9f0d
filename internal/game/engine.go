package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tmorr/voxtrivia/internal/trivia"
)

// QuestionSupplier produces one question per turn, retrying internally.
type QuestionSupplier interface {
	Fetch(ctx context.Context, p trivia.Personality) (*trivia.Question, error)
}

// Speaker narrates lines through the active voice.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	SetVoice(voice string)
}

// Listener captures one spoken answer per Start call.
type Listener interface {
	Start(onTranscript func(string), onError func(error)) error
	Stop()
}

// Options tunes game length and pacing.
type Options struct {
	TotalQuestions int
	FeedbackDelay  time.Duration
}

const (
	noMatchLine    = "Sorry, I didn't catch an answer there. Give it another try."
	micTroubleLine = "I'm having trouble hearing you. Let's try that again."
)

// Engine drives a full trivia session. All state lives on a single event
// loop goroutine; public methods post commands onto it and return
// immediately, so callbacks from audio and network goroutines never touch
// game state directly.
type Engine struct {
	supplier QuestionSupplier
	speaker  Speaker
	listener Listener
	sink     EventSink

	total int
	delay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	cmds   chan func()
	done   chan struct{}

	// Per-turn context; cancelled whenever the turn moves on so stale
	// narration stops instead of queueing ahead of the next line.
	turnCtx    context.Context
	turnCancel context.CancelFunc

	// Loop-owned state below; never read or written off the loop.
	phase       Phase
	turn        TurnState
	score       int
	number      int
	personality trivia.Personality
	voice       trivia.Voice
	question    trivia.Question
	selected    int
	correct     bool
	transcript  string
	status      string
	turnSeq     uint64
}

// NewEngine starts the event loop and publishes the initial selection
// snapshot. Close must be called to release the loop.
func NewEngine(supplier QuestionSupplier, speaker Speaker, listener Listener, sink EventSink, opts Options) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		supplier: supplier,
		speaker:  speaker,
		listener: listener,
		sink:     sink,
		total:    opts.TotalQuestions,
		delay:    opts.FeedbackDelay,
		ctx:      ctx,
		cancel:   cancel,
		turnCtx:  ctx,
		cmds:     make(chan func(), 32),
		done:     make(chan struct{}),
		phase:    PhaseSelecting,
		selected: NoSelection,
	}
	go e.loop()
	e.post(e.publish)
	return e
}

func (e *Engine) loop() {
	defer close(e.done)
	for {
		select {
		case cmd := <-e.cmds:
			cmd()
		case <-e.ctx.Done():
			return
		}
	}
}

func (e *Engine) post(cmd func()) {
	select {
	case e.cmds <- cmd:
	case <-e.ctx.Done():
	}
}

// Close stops the loop and releases any live listening resources.
func (e *Engine) Close() {
	e.cancel()
	<-e.done
	e.listener.Stop()
}

// StartGame begins a session with the chosen personality and voice.
// Ignored outside the selection phase or for unknown catalog IDs.
func (e *Engine) StartGame(personalityID, voiceID string) {
	e.post(func() {
		if e.phase != PhaseSelecting {
			return
		}
		p, ok := trivia.FindPersonality(personalityID)
		if !ok {
			log.Printf("warning: unknown personality %q", personalityID)
			return
		}
		v, ok := trivia.FindVoice(voiceID)
		if !ok {
			log.Printf("warning: unknown voice %q", voiceID)
			return
		}
		e.personality, e.voice = p, v
		e.speaker.SetVoice(v.TTSName)
		e.phase = PhasePlaying
		e.score = 0
		e.number = 1
		e.beginTurn()
	})
}

// SelectAnswer locks in an option by index. Accepted only while waiting.
func (e *Engine) SelectAnswer(index int) {
	e.post(func() {
		if e.phase != PhasePlaying || e.turn != TurnWaiting {
			return
		}
		if index < 0 || index >= len(e.question.Options) {
			return
		}
		e.resolve(index, "")
	})
}

// StartListening opens the microphone for a spoken answer.
func (e *Engine) StartListening() {
	e.post(func() {
		if e.phase != PhasePlaying || e.turn != TurnWaiting {
			return
		}
		seq := e.turnSeq
		e.turn = TurnListening
		e.status = ""
		e.publish()

		err := e.listener.Start(
			func(text string) { e.post(func() { e.onTranscript(seq, text) }) },
			func(err error) { e.post(func() { e.onListenError(seq, err) }) },
		)
		if err != nil {
			e.onListenError(seq, err)
		}
	})
}

// StopListening cancels an open microphone session without resolving.
func (e *Engine) StopListening() {
	e.post(func() {
		if e.turn != TurnListening {
			return
		}
		e.listener.Stop()
		e.turn = TurnWaiting
		e.publish()
	})
}

// RepeatQuestion re-narrates the current question and its options.
// Accepted only while waiting for an answer.
func (e *Engine) RepeatQuestion() {
	e.post(func() {
		if e.phase != PhasePlaying || e.turn != TurnWaiting {
			return
		}
		e.speakThen(e.turnSeq, narrateQuestion(&e.question), nil)
	})
}

// RetryTurn refetches the current question after supply gave up.
func (e *Engine) RetryTurn() {
	e.post(func() {
		if e.phase != PhasePlaying || e.turn != TurnErrored {
			return
		}
		e.beginTurn()
	})
}

// Restart abandons the session and returns to personality selection.
func (e *Engine) Restart() {
	e.post(func() {
		e.listener.Stop()
		e.turnSeq++
		if e.turnCancel != nil {
			e.turnCancel()
		}
		e.phase = PhaseSelecting
		e.turn = TurnLoading
		e.score = 0
		e.number = 1
		e.question = trivia.Question{}
		e.selected = NoSelection
		e.correct = false
		e.transcript = ""
		e.status = ""
		e.publish()
	})
}

// beginTurn advances the generation counter, fetches a question, and
// narrates it. Runs on the loop.
func (e *Engine) beginTurn() {
	e.turnSeq++
	seq := e.turnSeq
	e.turn = TurnLoading
	e.question = trivia.Question{}
	e.selected = NoSelection
	e.correct = false
	e.transcript = ""
	e.status = ""
	if e.turnCancel != nil {
		e.turnCancel()
	}
	e.turnCtx, e.turnCancel = context.WithCancel(e.ctx)
	e.publish()

	// Captured on the loop; the goroutine must not touch loop state.
	p := e.personality
	ctx := e.turnCtx
	go func() {
		q, err := e.supplier.Fetch(ctx, p)
		e.post(func() {
			if seq != e.turnSeq {
				return
			}
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				log.Printf("warning: question supply gave up: %v", err)
				e.turn = TurnErrored
				e.publish()
				return
			}
			e.question = *q
			e.publish()
			e.speakThen(seq, narrateQuestion(q), func() {
				if e.turn != TurnLoading {
					return
				}
				e.turn = TurnWaiting
				e.publish()
			})
		})
	}()
}

func (e *Engine) onTranscript(seq uint64, text string) {
	if seq != e.turnSeq || e.turn != TurnListening {
		return
	}
	e.transcript = text
	idx, ok := trivia.MatchAnswer(text, e.question.Options)
	if !ok {
		e.turn = TurnWaiting
		e.status = noMatchLine
		e.publish()
		e.speakThen(seq, noMatchLine, nil)
		return
	}
	e.resolve(idx, text)
}

func (e *Engine) onListenError(seq uint64, err error) {
	if seq != e.turnSeq || e.turn != TurnListening {
		return
	}
	log.Printf("warning: listening failed: %v", err)
	e.listener.Stop()
	e.turn = TurnWaiting
	e.status = micTroubleLine
	e.publish()
	e.speakThen(seq, micTroubleLine, nil)
}

// resolve locks in an answer and drives Processing through Feedback to
// Ended. Scoring happens exactly once, at the Feedback transition.
func (e *Engine) resolve(index int, transcript string) {
	seq := e.turnSeq
	e.turn = TurnProcessing
	e.selected = index
	e.transcript = transcript
	e.correct = index == e.question.CorrectAnswerIndex
	e.publish()

	e.speakThen(seq, verdictLine(&e.question, e.correct), func() {
		if e.turn != TurnProcessing {
			return
		}
		if e.correct {
			e.score++
		}
		e.turn = TurnFeedback
		e.publish()

		time.AfterFunc(e.delay, func() {
			e.post(func() {
				if seq != e.turnSeq || e.turn != TurnFeedback {
					return
				}
				e.endTurn()
			})
		})
	})
}

func (e *Engine) endTurn() {
	e.turn = TurnEnded
	e.publish()

	if e.number >= e.total {
		seq := e.turnSeq
		e.phase = PhaseSummary
		e.publish()
		line := fmt.Sprintf("That's the game! You scored %d out of %d. %s",
			e.score, e.total, FeedbackLine(e.score, e.total))
		e.speakThen(seq, line, nil)
		return
	}
	e.number++
	e.beginTurn()
}

// speakThen narrates off the loop, then posts the continuation back,
// dropping it if the turn has moved on. Narration runs under the turn's
// context so advancing the turn cuts stale speech.
func (e *Engine) speakThen(seq uint64, text string, then func()) {
	ctx := e.turnCtx
	go func() {
		if err := e.speaker.Speak(ctx, text); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("warning: narration failed: %v", err)
		}
		if then == nil {
			return
		}
		e.post(func() {
			if seq != e.turnSeq {
				return
			}
			then()
		})
	}()
}

func (e *Engine) publish() {
	if e.sink == nil {
		return
	}
	s := Snapshot{
		Phase:          e.phase,
		Turn:           e.turn,
		Score:          e.score,
		QuestionNumber: e.number,
		TotalQuestions: e.total,
		Personality:    e.personality,
		Voice:          e.voice,
		Question:       e.question,
		SelectedIndex:  e.selected,
		AnswerCorrect:  e.correct,
		Transcript:     e.transcript,
		StatusLine:     e.status,
	}
	if e.phase == PhaseSummary {
		s.FeedbackLine = FeedbackLine(e.score, e.total)
	}
	e.sink.GameChanged(s)
}

func narrateQuestion(q *trivia.Question) string {
	var b strings.Builder
	b.WriteString(q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, " Option %c: %s.", 'A'+i, opt)
	}
	return b.String()
}

func verdictLine(q *trivia.Question, correct bool) string {
	if correct {
		return "Correct! " + q.Explanation
	}
	answer := ""
	if q.CorrectAnswerIndex >= 0 && q.CorrectAnswerIndex < len(q.Options) {
		answer = q.Options[q.CorrectAnswerIndex]
	}
	return fmt.Sprintf("Not quite. The answer was %s. %s", answer, q.Explanation)
}
