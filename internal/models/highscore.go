package models

import "time"

// HighScoreEntry is one persisted leaderboard record. Entries are kept in
// descending percentage order and capped at the configured leaderboard size.
type HighScoreEntry struct {
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage int       `json:"percentage"`
	Difficulty string    `json:"difficulty"`
	Date       time.Time `json:"date"`
}
