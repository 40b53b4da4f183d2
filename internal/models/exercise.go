package models

// Difficulty levels offered by the web client. Other values are passed through.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ExerciseRequest is the body of the exercise route
type ExerciseRequest struct {
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
	UserID     string `json:"userId,omitempty"`
}

// Exercise is one multiple-choice item
type Exercise struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswer"`
	Explanation        string   `json:"explanation"`
}

// ExerciseSet is the envelope the provider is asked to produce
type ExerciseSet struct {
	Exercises []Exercise `json:"exercises"`
}
