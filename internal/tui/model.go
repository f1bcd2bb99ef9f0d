// Package tui renders the trivia session in the terminal and translates
// key presses into engine commands.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmorr/voxtrivia/internal/game"
	"github.com/tmorr/voxtrivia/internal/trivia"
)

// Controller is the slice of the game engine the TUI drives.
type Controller interface {
	StartGame(personalityID, voiceID string)
	SelectAnswer(index int)
	StartListening()
	StopListening()
	RepeatQuestion()
	RetryTurn()
	Restart()
}

// Focus tracks which selection list has keyboard focus.
type Focus int

const (
	FocusPersonality Focus = iota
	FocusVoice
)

// Model is the root bubbletea model.
type Model struct {
	controller Controller
	snap       game.Snapshot

	// Selection screen state.
	personalityIndex int
	voiceIndex       int
	focus            Focus

	width  int
	height int
}

func New(controller Controller) Model {
	return Model{
		controller: controller,
		snap:       game.Snapshot{SelectedIndex: game.NoSelection},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case SnapshotMsg:
		m.snap = msg.Snapshot
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}

	switch m.snap.Phase {
	case game.PhaseSelecting:
		return m.handleSelectionKey(key)
	case game.PhasePlaying:
		return m.handlePlayingKey(key)
	case game.PhaseSummary:
		if key == "r" {
			m.controller.Restart()
		}
	}
	return m, nil
}

func (m Model) handleSelectionKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "tab", "left", "right", "h", "l":
		if m.focus == FocusPersonality {
			m.focus = FocusVoice
		} else {
			m.focus = FocusPersonality
		}
	case "up", "k":
		if m.focus == FocusPersonality {
			m.personalityIndex = clampIndex(m.personalityIndex-1, len(trivia.Personalities))
		} else {
			m.voiceIndex = clampIndex(m.voiceIndex-1, len(trivia.Voices))
		}
	case "down", "j":
		if m.focus == FocusPersonality {
			m.personalityIndex = clampIndex(m.personalityIndex+1, len(trivia.Personalities))
		} else {
			m.voiceIndex = clampIndex(m.voiceIndex+1, len(trivia.Voices))
		}
	case "enter":
		m.controller.StartGame(
			trivia.Personalities[m.personalityIndex].ID,
			trivia.Voices[m.voiceIndex].ID,
		)
	}
	return m, nil
}

func (m Model) handlePlayingKey(key string) (tea.Model, tea.Cmd) {
	switch m.snap.Turn {
	case game.TurnWaiting:
		if idx, ok := answerKeyIndex(key); ok {
			m.controller.SelectAnswer(idx)
			return m, nil
		}
		if key == " " {
			m.controller.StartListening()
		}
		if key == "s" {
			m.controller.RepeatQuestion()
		}
	case game.TurnListening:
		if key == " " || key == "esc" {
			m.controller.StopListening()
		}
	case game.TurnErrored:
		if key == "r" {
			m.controller.RetryTurn()
		}
	}
	return m, nil
}

// answerKeyIndex maps 1-4 and a-d onto option indexes.
func answerKeyIndex(key string) (int, bool) {
	switch key {
	case "1", "a":
		return 0, true
	case "2", "b":
		return 1, true
	case "3", "c":
		return 2, true
	case "4", "d":
		return 3, true
	}
	return 0, false
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (m Model) View() string {
	switch m.snap.Phase {
	case game.PhasePlaying:
		return m.playingView()
	case game.PhaseSummary:
		return m.summaryView()
	default:
		return m.selectionView()
	}
}

func (m Model) selectionView() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("VoxTrivia") + "\n")
	b.WriteString(StatusStyle.Render("Pick a host and a voice, then press enter.") + "\n\n")

	b.WriteString(m.listTitle("Host", FocusPersonality) + "\n")
	for i, p := range trivia.Personalities {
		line := fmt.Sprintf("%s — %s", p.Name, p.Description)
		b.WriteString(m.listLine(line, i == m.personalityIndex, m.focus == FocusPersonality) + "\n")
	}

	b.WriteString("\n" + m.listTitle("Voice", FocusVoice) + "\n")
	for i, v := range trivia.Voices {
		b.WriteString(m.listLine(v.Name, i == m.voiceIndex, m.focus == FocusVoice) + "\n")
	}

	b.WriteString("\n" + HelpStyle.Render("up/down move · tab switch list · enter start · q quit"))
	return b.String()
}

func (m Model) listTitle(title string, f Focus) string {
	if m.focus == f {
		return TitleStyle.Render(title)
	}
	return StatusStyle.Render(title)
}

func (m Model) listLine(text string, selected, focused bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
		if focused {
			return cursor + SelectedStyle.Render(text)
		}
	}
	return cursor + text
}

func (m Model) playingView() string {
	s := m.snap
	var b strings.Builder

	theme := ThemeStyle(s.Personality.Color)
	header := fmt.Sprintf("%s · Question %d of %d · Score %d",
		s.Personality.Name, s.QuestionNumber, s.TotalQuestions, s.Score)
	b.WriteString(theme.Render(header) + "\n\n")

	switch s.Turn {
	case game.TurnLoading:
		b.WriteString(StatusStyle.Render("Thinking up a question...") + "\n")
		return b.String()
	case game.TurnErrored:
		b.WriteString(ErrorStyle.Render("The question well ran dry.") + "\n")
		b.WriteString(HelpStyle.Render("r retry · q quit") + "\n")
		return b.String()
	}

	b.WriteString(s.Question.Text + "\n\n")
	for i, opt := range s.Question.Options {
		b.WriteString(m.optionLine(i, opt) + "\n")
	}
	b.WriteString("\n")

	switch s.Turn {
	case game.TurnWaiting:
		if s.StatusLine != "" {
			b.WriteString(StatusStyle.Render(s.StatusLine) + "\n")
		}
		b.WriteString(HelpStyle.Render("1-4 or a-d answer · space speak · s hear again · q quit"))
	case game.TurnListening:
		b.WriteString(ListeningDotStyle.Render("● listening") + "\n")
		b.WriteString(HelpStyle.Render("space cancel · q quit"))
	case game.TurnProcessing:
		if s.Transcript != "" {
			b.WriteString(TranscriptStyle.Render("\""+s.Transcript+"\"") + "\n")
		}
		b.WriteString(StatusStyle.Render("Checking your answer..."))
	case game.TurnFeedback, game.TurnEnded:
		b.WriteString(m.verdictView())
	}
	return b.String()
}

func (m Model) optionLine(i int, opt string) string {
	label := fmt.Sprintf("%c. %s", 'A'+i, opt)
	s := m.snap

	revealed := s.Turn == game.TurnFeedback || s.Turn == game.TurnEnded
	if revealed {
		switch i {
		case s.Question.CorrectAnswerIndex:
			return CorrectStyle.Render("✓ " + label)
		case s.SelectedIndex:
			return WrongStyle.Render("✗ " + label)
		default:
			return DimStyle.Render("  " + label)
		}
	}
	if i == s.SelectedIndex {
		return SelectedStyle.Render("> " + label)
	}
	return "  " + label
}

func (m Model) verdictView() string {
	s := m.snap
	var b strings.Builder

	if s.AnswerCorrect {
		b.WriteString(CorrectStyle.Render("Correct!") + "\n")
	} else {
		b.WriteString(WrongStyle.Render("Not quite.") + "\n")
	}
	if s.Question.Explanation != "" {
		b.WriteString(s.Question.Explanation + "\n")
	}
	for _, src := range s.Question.Sources {
		b.WriteString(DimStyle.Render(src.Title+" — "+src.URI) + "\n")
	}
	return b.String()
}

func (m Model) summaryView() string {
	s := m.snap
	var b strings.Builder

	theme := ThemeStyle(s.Personality.Color)
	b.WriteString(theme.Render("That's the game!") + "\n\n")
	b.WriteString(fmt.Sprintf("Final score: %d / %d\n", s.Score, s.TotalQuestions))
	b.WriteString(s.FeedbackLine + "\n\n")
	b.WriteString(HelpStyle.Render("r play again · q quit"))
	return b.String()
}
