package repository

import (
	"context"

	"github.com/lucasmv/triviarush/internal/models"
)

// HistoryRepository handles completed-quiz data access
type HistoryRepository interface {
	Insert(ctx context.Context, record models.QuizRecord) (int64, error)
	List(ctx context.Context, filter models.QuizFilter) ([]models.QuizRecord, error)
	Stats(ctx context.Context, playerName string) (*models.QuizStats, error)
}
