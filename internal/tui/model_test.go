package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmorr/voxtrivia/internal/game"
	"github.com/tmorr/voxtrivia/internal/trivia"
)

type controllerSpy struct {
	started  []string
	answers  []int
	listens  int
	stops    int
	repeats  int
	retries  int
	restarts int
}

func (c *controllerSpy) StartGame(personalityID, voiceID string) {
	c.started = append(c.started, personalityID+"/"+voiceID)
}
func (c *controllerSpy) SelectAnswer(index int) { c.answers = append(c.answers, index) }
func (c *controllerSpy) StartListening()        { c.listens++ }
func (c *controllerSpy) StopListening()         { c.stops++ }
func (c *controllerSpy) RepeatQuestion()        { c.repeats++ }
func (c *controllerSpy) RetryTurn()             { c.retries++ }
func (c *controllerSpy) Restart()               { c.restarts++ }

func keyMsg(key string) tea.KeyMsg {
	if key == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func playingSnapshot(turn game.TurnState) game.Snapshot {
	return game.Snapshot{
		Phase:          game.PhasePlaying,
		Turn:           turn,
		QuestionNumber: 1,
		TotalQuestions: 5,
		Personality:    trivia.Personalities[1],
		Voice:          trivia.Voices[1],
		Question: trivia.Question{
			Text:               "Which river is the longest?",
			Options:            []string{"Nile", "Amazon", "Yangtze", "Mississippi"},
			CorrectAnswerIndex: 0,
			Explanation:        "The Nile edges out the Amazon.",
		},
		SelectedIndex: game.NoSelection,
	}
}

func withSnapshot(m Model, s game.Snapshot) Model {
	updated, _ := m.Update(SnapshotMsg{Snapshot: s})
	return updated.(Model)
}

func TestNewModelStartsOnSelection(t *testing.T) {
	m := New(&controllerSpy{})
	if m.snap.Phase != game.PhaseSelecting {
		t.Error("new model should start in selection phase")
	}
	view := m.View()
	if !strings.Contains(view, trivia.Personalities[0].Name) {
		t.Errorf("selection view missing personality catalog:\n%s", view)
	}
}

func TestSelectionNavigatesAndStarts(t *testing.T) {
	spy := &controllerSpy{}
	m := New(spy)

	updated, _ := m.Update(keyMsg("j")) // second personality
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("tab")) // focus voices
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("j")) // second voice
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("enter"))
	m = updated.(Model)

	if len(spy.started) != 1 || spy.started[0] != "professor/kore" {
		t.Fatalf("started = %v, want [professor/kore]", spy.started)
	}
}

func TestSelectionCursorClamped(t *testing.T) {
	m := New(&controllerSpy{})
	for i := 0; i < 10; i++ {
		updated, _ := m.Update(keyMsg("j"))
		m = updated.(Model)
	}
	if m.personalityIndex != len(trivia.Personalities)-1 {
		t.Fatalf("cursor overran catalog: %d", m.personalityIndex)
	}
	for i := 0; i < 10; i++ {
		updated, _ := m.Update(keyMsg("k"))
		m = updated.(Model)
	}
	if m.personalityIndex != 0 {
		t.Fatalf("cursor underran catalog: %d", m.personalityIndex)
	}
}

func TestAnswerKeysOnlyWhileWaiting(t *testing.T) {
	spy := &controllerSpy{}
	m := withSnapshot(New(spy), playingSnapshot(game.TurnWaiting))

	updated, _ := m.Update(keyMsg("b"))
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("3"))
	m = updated.(Model)

	if len(spy.answers) != 2 || spy.answers[0] != 1 || spy.answers[1] != 2 {
		t.Fatalf("answers = %v, want [1 2]", spy.answers)
	}

	m = withSnapshot(m, playingSnapshot(game.TurnProcessing))
	updated, _ = m.Update(keyMsg("a"))
	_ = updated
	if len(spy.answers) != 2 {
		t.Fatalf("answer accepted while processing: %v", spy.answers)
	}
}

func TestSpaceTogglesListening(t *testing.T) {
	spy := &controllerSpy{}
	m := withSnapshot(New(spy), playingSnapshot(game.TurnWaiting))

	updated, _ := m.Update(keyMsg(" "))
	m = updated.(Model)
	if spy.listens != 1 {
		t.Fatalf("listens = %d, want 1", spy.listens)
	}

	m = withSnapshot(m, playingSnapshot(game.TurnListening))
	updated, _ = m.Update(keyMsg(" "))
	_ = updated
	if spy.stops != 1 {
		t.Fatalf("stops = %d, want 1", spy.stops)
	}
}

func TestRepeatKeyOnlyWhileWaiting(t *testing.T) {
	spy := &controllerSpy{}
	m := withSnapshot(New(spy), playingSnapshot(game.TurnWaiting))

	updated, _ := m.Update(keyMsg("s"))
	m = updated.(Model)
	if spy.repeats != 1 {
		t.Fatalf("repeats = %d, want 1", spy.repeats)
	}

	m = withSnapshot(m, playingSnapshot(game.TurnProcessing))
	updated, _ = m.Update(keyMsg("s"))
	_ = updated
	if spy.repeats != 1 {
		t.Fatalf("repeat accepted while processing: %d", spy.repeats)
	}
}

func TestRetryKeyInErroredTurn(t *testing.T) {
	spy := &controllerSpy{}
	m := withSnapshot(New(spy), playingSnapshot(game.TurnErrored))

	updated, _ := m.Update(keyMsg("r"))
	_ = updated
	if spy.retries != 1 {
		t.Fatalf("retries = %d, want 1", spy.retries)
	}
}

func TestRestartKeyInSummary(t *testing.T) {
	spy := &controllerSpy{}
	snap := playingSnapshot(game.TurnEnded)
	snap.Phase = game.PhaseSummary
	snap.Score = 3
	snap.FeedbackLine = game.FeedbackLine(3, 5)
	m := withSnapshot(New(spy), snap)

	view := m.View()
	if !strings.Contains(view, "3 / 5") || !strings.Contains(view, snap.FeedbackLine) {
		t.Fatalf("summary view missing score or feedback:\n%s", view)
	}

	updated, _ := m.Update(keyMsg("r"))
	_ = updated
	if spy.restarts != 1 {
		t.Fatalf("restarts = %d, want 1", spy.restarts)
	}
}

func TestFeedbackViewRevealsAnswer(t *testing.T) {
	snap := playingSnapshot(game.TurnFeedback)
	snap.SelectedIndex = 1
	snap.AnswerCorrect = false
	m := withSnapshot(New(&controllerSpy{}), snap)

	view := m.View()
	if !strings.Contains(view, "Not quite.") {
		t.Fatalf("feedback view missing verdict:\n%s", view)
	}
	if !strings.Contains(view, "Nile") || !strings.Contains(view, "The Nile edges out the Amazon.") {
		t.Fatalf("feedback view missing answer reveal:\n%s", view)
	}
}

func TestListeningViewShowsIndicator(t *testing.T) {
	m := withSnapshot(New(&controllerSpy{}), playingSnapshot(game.TurnListening))
	if !strings.Contains(m.View(), "listening") {
		t.Fatal("listening view missing indicator")
	}
}
