package game

// FeedbackLine picks the end-of-game message for a final score. Tiers are
// percentage based and stable across runs.
func FeedbackLine(score, total int) string {
	if total <= 0 {
		return ""
	}
	pct := score * 100 / total
	switch {
	case pct == 100:
		return "Perfect score! You're a trivia legend!"
	case pct >= 80:
		return "Incredible! You really know your stuff."
	case pct >= 50:
		return "Nice job! A solid performance."
	case pct >= 20:
		return "Not bad! A little more practice and you'll be a pro."
	default:
		return "Hey, participation is what counts, right?"
	}
}
