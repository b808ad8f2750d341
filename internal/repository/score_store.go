package repository

import (
	"context"

	"github.com/lucasmv/triviarush/internal/models"
)

// ScoreStore persists the leaderboard as one ordered list of entries. The
// backend (JSON file, sqlite) is swappable without touching session logic.
// Load tolerates an absent or corrupt record by returning an empty list.
type ScoreStore interface {
	Load(ctx context.Context) ([]models.HighScoreEntry, error)
	Save(ctx context.Context, entries []models.HighScoreEntry) error
}
