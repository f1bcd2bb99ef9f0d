package game

import "testing"

func TestFeedbackLineTiers(t *testing.T) {
	tests := []struct {
		score, total int
		want         string
	}{
		{5, 5, "Perfect score! You're a trivia legend!"},
		{4, 5, "Incredible! You really know your stuff."},
		{3, 5, "Nice job! A solid performance."},
		{2, 5, "Not bad! A little more practice and you'll be a pro."},
		{1, 5, "Not bad! A little more practice and you'll be a pro."},
		{0, 5, "Hey, participation is what counts, right?"},
		{0, 0, ""},
	}
	for _, tt := range tests {
		if got := FeedbackLine(tt.score, tt.total); got != tt.want {
			t.Errorf("FeedbackLine(%d, %d) = %q, want %q", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestTurnStateStrings(t *testing.T) {
	states := map[TurnState]string{
		TurnLoading:    "loading",
		TurnWaiting:    "waiting",
		TurnListening:  "listening",
		TurnProcessing: "processing",
		TurnFeedback:   "feedback",
		TurnEnded:      "ended",
		TurnErrored:    "errored",
	}
	for state, want := range states {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
	if got := PhaseSummary.String(); got != "summary" {
		t.Errorf("PhaseSummary.String() = %q", got)
	}
}
