// Package trivia holds the core game domain: questions, host personalities,
// voices, and the answer matcher. It has no external dependencies.
package trivia

import "fmt"

// OptionCount is the number of multiple-choice options every question carries.
const OptionCount = 4

// Source is a grounding reference attached to a generated question.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Question is one multiple-choice trivia question. It lives for a single
// turn and is discarded when the turn ends.
type Question struct {
	Text               string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
	Sources            []Source `json:"sources,omitempty"`
}

// Validate reports whether the question satisfies the schema contract:
// non-empty text, exactly four options, and an in-range answer index.
func (q *Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("expected %d options, got %d", OptionCount, len(q.Options))
	}
	for i, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("option %d is empty", i)
		}
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= OptionCount {
		return fmt.Errorf("correct answer index %d out of range", q.CorrectAnswerIndex)
	}
	return nil
}

// FilterSources drops grounding entries missing either a URI or a title.
func FilterSources(sources []Source) []Source {
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s.URI == "" || s.Title == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
