package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/opentdb"
)

// MockProviderClient is a mock implementation of opentdb.ClientInterface
type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) FetchQuestions(ctx context.Context, req opentdb.QuestionRequest) ([]models.Question, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockProviderClient) FetchCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}
