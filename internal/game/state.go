// Package game holds the session driver and per-turn state machine that
// coordinate question supply, narration, listening, and scoring.
package game

// TurnState is the lifecycle of a single question. Exactly one value is
// active at a time; every async completion maps to a defined next state.
type TurnState int

const (
	// TurnLoading covers question fetch and the opening narration.
	TurnLoading TurnState = iota
	// TurnWaiting accepts an answer, by key press or by voice.
	TurnWaiting
	// TurnListening streams microphone audio until a transcript resolves
	// or the player cancels.
	TurnListening
	// TurnProcessing means an answer was locked in; input is disabled.
	TurnProcessing
	// TurnFeedback shows the verdict and explanation.
	TurnFeedback
	// TurnEnded is terminal for the turn; the driver advances or closes
	// the game.
	TurnEnded
	// TurnErrored means question supply gave up after bounded retries.
	// The player can retry the turn explicitly.
	TurnErrored
)

func (s TurnState) String() string {
	switch s {
	case TurnLoading:
		return "loading"
	case TurnWaiting:
		return "waiting"
	case TurnListening:
		return "listening"
	case TurnProcessing:
		return "processing"
	case TurnFeedback:
		return "feedback"
	case TurnEnded:
		return "ended"
	case TurnErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Phase is the cross-question session phase.
type Phase int

const (
	PhaseSelecting Phase = iota
	PhasePlaying
	PhaseSummary
)

func (p Phase) String() string {
	switch p {
	case PhaseSelecting:
		return "selecting"
	case PhasePlaying:
		return "playing"
	case PhaseSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// NoSelection is the SelectedIndex value when no answer has resolved.
const NoSelection = -1
