package sqlite

import (
	"context"
	"database/sql"

	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/repository"
)

type scoreStore struct {
	db *sql.DB
}

// NewScoreStore creates a sqlite-backed ScoreStore implementation
func NewScoreStore(db *sql.DB) repository.ScoreStore {
	return &scoreStore{db: db}
}

func (s *scoreStore) Load(ctx context.Context) ([]models.HighScoreEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("loading leaderboard")

	rows, err := s.db.QueryContext(ctx, `
SELECT name, score, total, percentage, difficulty, date
FROM high_scores
ORDER BY percentage DESC, date ASC
`)
	if err != nil {
		log.Error("failed to load leaderboard: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []models.HighScoreEntry{}
	for rows.Next() {
		var e models.HighScoreEntry
		if err := rows.Scan(&e.Name, &e.Score, &e.Total, &e.Percentage, &e.Difficulty, &e.Date); err != nil {
			log.Error("failed to scan leaderboard row: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}

	log.Debug("loaded %d leaderboard entries", len(entries))
	return entries, rows.Err()
}

func (s *scoreStore) Save(ctx context.Context, entries []models.HighScoreEntry) error {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("saving %d leaderboard entries", len(entries))

	return tx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM high_scores`); err != nil {
			log.Error("failed to clear leaderboard: %v", err)
			return err
		}
		for _, e := range entries {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO high_scores (name, score, total, percentage, difficulty, date)
VALUES (?, ?, ?, ?, ?, ?)
`, e.Name, e.Score, e.Total, e.Percentage, e.Difficulty, e.Date); err != nil {
				log.Error("failed to insert leaderboard entry: %v", err)
				return err
			}
		}
		return nil
	})
}
