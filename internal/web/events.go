package web

import (
	"time"

	"github.com/tmorr/voxtrivia/internal/game"
	"github.com/tmorr/voxtrivia/internal/trivia"
)

const EventVersion = 1

type Event struct {
	Type      string `json:"type"`
	Version   int    `json:"version"`
	Timestamp string `json:"timestamp"`
}

// GameStateEvent mirrors a game snapshot for spectators. The correct answer
// index is withheld until the turn resolves so a spectator view cannot spoil
// an open question.
type GameStateEvent struct {
	Event
	Phase          string          `json:"phase"`
	Turn           string          `json:"turn"`
	Score          int             `json:"score"`
	QuestionNumber int             `json:"question_number"`
	TotalQuestions int             `json:"total_questions"`
	Personality    string          `json:"personality,omitempty"`
	Question       string          `json:"question,omitempty"`
	Options        []string        `json:"options,omitempty"`
	CorrectIndex   int             `json:"correct_index"`
	SelectedIndex  int             `json:"selected_index"`
	AnswerCorrect  bool            `json:"answer_correct"`
	Transcript     string          `json:"transcript,omitempty"`
	FeedbackLine   string          `json:"feedback_line,omitempty"`
	Sources        []trivia.Source `json:"sources,omitempty"`
}

type ConnectionEvent struct {
	Event
	Connected bool `json:"connected"`
}

func newEvent(eventType string, now time.Time) Event {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return Event{
		Type:      eventType,
		Version:   EventVersion,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
	}
}

func gameStateEvent(s game.Snapshot) GameStateEvent {
	ev := GameStateEvent{
		Event:          newEvent("game_state", time.Now().UTC()),
		Phase:          s.Phase.String(),
		Turn:           s.Turn.String(),
		Score:          s.Score,
		QuestionNumber: s.QuestionNumber,
		TotalQuestions: s.TotalQuestions,
		Personality:    s.Personality.Name,
		Question:       s.Question.Text,
		Options:        s.Question.Options,
		CorrectIndex:   game.NoSelection,
		SelectedIndex:  s.SelectedIndex,
		AnswerCorrect:  s.AnswerCorrect,
		Transcript:     s.Transcript,
		FeedbackLine:   s.FeedbackLine,
		Sources:        s.Question.Sources,
	}
	if s.Turn == game.TurnProcessing || s.Turn == game.TurnFeedback || s.Turn == game.TurnEnded {
		ev.CorrectIndex = s.Question.CorrectAnswerIndex
	}
	return ev
}
