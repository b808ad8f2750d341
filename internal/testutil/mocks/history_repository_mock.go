package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lucasmv/triviarush/internal/models"
)

// MockHistoryRepository is a mock implementation of repository.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Insert(ctx context.Context, record models.QuizRecord) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryRepository) List(ctx context.Context, filter models.QuizFilter) ([]models.QuizRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuizRecord), args.Error(1)
}

func (m *MockHistoryRepository) Stats(ctx context.Context, playerName string) (*models.QuizStats, error) {
	args := m.Called(ctx, playerName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizStats), args.Error(1)
}
