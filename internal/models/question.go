package models

// Difficulty levels accepted by the question provider.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether s is a difficulty the provider understands.
func ValidDifficulty(s string) bool {
	switch s {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single multiple-choice question as returned by the provider.
// All text fields are HTML-entity encoded; decoding happens once per round
// when the question is presented.
type Question struct {
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	Text             string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Category is an entry from the provider's category list.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
