package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lucasmv/triviarush/internal/models"
)

// MockScoreStore is a mock implementation of repository.ScoreStore
type MockScoreStore struct {
	mock.Mock
}

func (m *MockScoreStore) Load(ctx context.Context) ([]models.HighScoreEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HighScoreEntry), args.Error(1)
}

func (m *MockScoreStore) Save(ctx context.Context, entries []models.HighScoreEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}
