package game

import "github.com/tmorr/voxtrivia/internal/trivia"

// Snapshot is the full observable game state published after every
// transition. Sinks receive a copy and never share memory with the engine.
type Snapshot struct {
	Phase          Phase
	Turn           TurnState
	Score          int
	QuestionNumber int
	TotalQuestions int
	Personality    trivia.Personality
	Voice          trivia.Voice
	Question       trivia.Question
	SelectedIndex  int
	AnswerCorrect  bool
	Transcript     string
	FeedbackLine   string
	StatusLine     string
}

// EventSink receives state snapshots. Calls arrive from the engine's event
// loop, one at a time, in transition order; sinks must not block.
type EventSink interface {
	GameChanged(Snapshot)
}

// MultiSink fans one snapshot out to several sinks in order.
type MultiSink []EventSink

func (m MultiSink) GameChanged(s Snapshot) {
	for _, sink := range m {
		sink.GameChanged(s)
	}
}
