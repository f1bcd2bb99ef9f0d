package trivia

// Personality is a static catalog entry describing the trivia host persona.
// The Prompt is used as the system instruction for question generation.
type Personality struct {
	ID          string
	Name        string
	Description string
	Prompt      string
	Color       string
}

// Voice is a static catalog entry naming a synthesis voice.
type Voice struct {
	ID      string
	Name    string
	TTSName string
}

// Personalities is the built-in host catalog. Selected once per session.
var Personalities = []Personality{
	{
		ID:          "comedian",
		Name:        "Sassy Comedian",
		Description: "Quick-witted, sarcastic, and always ready with a joke.",
		Prompt:      "You are a sassy, sarcastic comedian hosting a trivia game. Your questions should be clever and your feedback should be hilariously cutting or ironically congratulatory.",
		Color:       "purple",
	},
	{
		ID:          "professor",
		Name:        "Wise Professor",
		Description: "Knowledgeable, eloquent, and encouraging intellectual curiosity.",
		Prompt:      "You are a wise, encouraging university professor hosting a trivia game. Your questions should be thought-provoking and your feedback should be insightful and educational.",
		Color:       "blue",
	},
	{
		ID:          "coach",
		Name:        "Energetic Coach",
		Description: "High-energy, motivational, and treats trivia like a sport.",
		Prompt:      "You are a high-energy, motivational sports coach hosting a trivia game. Your questions should be framed as challenges and your feedback should be loud, enthusiastic, and full of sports metaphors.",
		Color:       "red",
	},
}

// Voices is the built-in synthesis voice catalog.
var Voices = []Voice{
	{ID: "zephyr", Name: "Zephyr", TTSName: "Zephyr"},
	{ID: "kore", Name: "Kore", TTSName: "Kore"},
	{ID: "puck", Name: "Puck", TTSName: "Puck"},
	{ID: "charon", Name: "Charon", TTSName: "Charon"},
	{ID: "fenrir", Name: "Fenrir", TTSName: "Fenrir"},
}

// FindPersonality returns the catalog entry with the given ID, or false.
func FindPersonality(id string) (Personality, bool) {
	for _, p := range Personalities {
		if p.ID == id {
			return p, true
		}
	}
	return Personality{}, false
}

// FindVoice returns the catalog entry with the given ID, or false.
func FindVoice(id string) (Voice, bool) {
	for _, v := range Voices {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}
