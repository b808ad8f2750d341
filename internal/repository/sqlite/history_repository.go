package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository implementation
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Insert(ctx context.Context, record models.QuizRecord) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("inserting quiz record: player=%s, score=%d/%d", record.PlayerName, record.Score, record.Total)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO quizzes (player_name, category, difficulty, score, total, percentage, timed_out, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, record.PlayerName, record.Category, record.Difficulty, record.Score, record.Total, record.Percentage, record.TimedOut, record.FinishedAt)
	if err != nil {
		log.Error("failed to insert quiz record: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *historyRepository) List(ctx context.Context, filter models.QuizFilter) ([]models.QuizRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("listing quiz records: player=%s, difficulty=%s, category=%s",
		filter.PlayerName, filter.Difficulty, filter.Category)

	query := sqlBuilder.Select(
		"id", "player_name", "category", "difficulty", "score", "total",
		"percentage", "timed_out", "finished_at", "created_at",
	).From("quizzes")

	// Dynamic WHERE clauses
	if filter.PlayerName != "" {
		query = query.Where(squirrel.Eq{"player_name": filter.PlayerName})
	}
	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}

	query = query.OrderBy("finished_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list quiz records: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.QuizRecord
	for rows.Next() {
		var rec models.QuizRecord
		if err := rows.Scan(&rec.ID, &rec.PlayerName, &rec.Category, &rec.Difficulty, &rec.Score,
			&rec.Total, &rec.Percentage, &rec.TimedOut, &rec.FinishedAt, &rec.CreatedAt); err != nil {
			log.Error("failed to scan quiz record: %v", err)
			return nil, err
		}
		records = append(records, rec)
	}

	log.Debug("found %d quiz records", len(records))
	return records, rows.Err()
}

func (r *historyRepository) Stats(ctx context.Context, playerName string) (*models.QuizStats, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("computing quiz stats: player=%s", playerName)

	stats := &models.QuizStats{
		BestPercentages:   make(map[string]int),
		QuizzesByCategory: make(map[string]int),
	}

	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(score), 0), COALESCE(AVG(percentage), 0)
FROM quizzes
WHERE player_name = ?
`, playerName).Scan(&stats.TotalQuizzes, &stats.TotalQuestions, &stats.TotalCorrect, &stats.AveragePercentage)
	if err != nil {
		log.Error("failed to compute quiz totals: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT difficulty, MAX(percentage)
FROM quizzes
WHERE player_name = ?
GROUP BY difficulty
`, playerName)
	if err != nil {
		log.Error("failed to compute best percentages: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var difficulty string
		var best int
		if err := rows.Scan(&difficulty, &best); err != nil {
			log.Error("failed to scan best percentage row: %v", err)
			return nil, err
		}
		stats.BestPercentages[difficulty] = best
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := r.db.QueryContext(ctx, `
SELECT category, COUNT(*)
FROM quizzes
WHERE player_name = ?
GROUP BY category
`, playerName)
	if err != nil {
		log.Error("failed to compute category counts: %v", err)
		return nil, err
	}
	defer catRows.Close()

	for catRows.Next() {
		var category string
		var count int
		if err := catRows.Scan(&category, &count); err != nil {
			log.Error("failed to scan category row: %v", err)
			return nil, err
		}
		stats.QuizzesByCategory[category] = count
	}

	return stats, catRows.Err()
}
