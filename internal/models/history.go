package models

import "time"

// QuizRecord is the persisted trace of one completed quiz.
type QuizRecord struct {
	ID         int64     `json:"id"`
	PlayerName string    `json:"player_name"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage int       `json:"percentage"`
	TimedOut   int       `json:"timed_out"` // rounds resolved by timer expiry
	FinishedAt time.Time `json:"finished_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuizFilter narrows history queries.
type QuizFilter struct {
	PlayerName string
	Difficulty string
	Category   string
	Limit      int
}

// QuizStats aggregates a player's quiz history.
type QuizStats struct {
	TotalQuizzes      int            `json:"total_quizzes"`
	TotalQuestions    int            `json:"total_questions"`
	TotalCorrect      int            `json:"total_correct"`
	AveragePercentage float64        `json:"average_percentage"`
	BestPercentages   map[string]int `json:"best_percentages"` // key: difficulty
	QuizzesByCategory map[string]int `json:"quizzes_by_category"`
}
