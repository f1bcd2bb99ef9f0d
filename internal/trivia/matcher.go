package trivia

import "strings"

var optionLetters = []string{"a", "b", "c", "d"}

// MatchAnswer maps a transcribed utterance to an option index. Matching is
// deterministic: the letter pass runs first ("option b" anywhere in the
// transcript, or the transcript being exactly the bare letter), then the
// option-text substring pass. Ties break by option index order in both
// passes. Returns false when nothing matches.
func MatchAnswer(transcript string, options []string) (int, bool) {
	normalized := strings.ToLower(strings.TrimSpace(transcript))
	if normalized == "" {
		return 0, false
	}

	for i, letter := range optionLetters {
		if i >= len(options) {
			break
		}
		if strings.Contains(normalized, "option "+letter) || normalized == letter {
			return i, true
		}
	}

	for i, option := range options {
		if option == "" {
			continue
		}
		if strings.Contains(normalized, strings.ToLower(option)) {
			return i, true
		}
	}

	return 0, false
}
