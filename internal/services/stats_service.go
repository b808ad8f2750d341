package services

import (
	"context"

	"github.com/lucasmv/triviarush/internal/errors"
	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/repository"
)

// StatsService handles quiz history queries
type StatsService interface {
	History(ctx context.Context, filter models.QuizFilter) ([]models.QuizRecord, error)
	PlayerStats(ctx context.Context, playerName string) (*models.QuizStats, error)
}

type statsService struct {
	historyRepo repository.HistoryRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(historyRepo repository.HistoryRepository) StatsService {
	return &statsService{historyRepo: historyRepo}
}

func (s *statsService) History(ctx context.Context, filter models.QuizFilter) ([]models.QuizRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing quiz history: player=%s", filter.PlayerName)

	records, err := s.historyRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list quiz history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return records, nil
}

func (s *statsService) PlayerStats(ctx context.Context, playerName string) (*models.QuizStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing player stats: player=%s", playerName)

	if playerName == "" {
		return nil, errors.NewValidationError("player_name", "cannot be empty")
	}

	stats, err := s.historyRepo.Stats(ctx, playerName)
	if err != nil {
		log.Error("failed to compute stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}
