package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lucasmv/triviarush/internal/errors"
	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/services"
	"github.com/lucasmv/triviarush/internal/testutil/mocks"
)

func TestHistory_PassesFilterThrough(t *testing.T) {
	repo := new(mocks.MockHistoryRepository)
	filter := models.QuizFilter{PlayerName: "ada", Difficulty: "hard", Limit: 5}
	repo.On("List", mock.Anything, filter).Return([]models.QuizRecord{
		{PlayerName: "ada", Score: 4, Total: 5, Percentage: 80},
	}, nil)

	svc := services.NewStatsService(repo)
	records, err := svc.History(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ada", records[0].PlayerName)
	repo.AssertExpectations(t)
}

func TestHistory_RepositoryErrorWrapped(t *testing.T) {
	repo := new(mocks.MockHistoryRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("database is locked"))

	svc := services.NewStatsService(repo)
	_, err := svc.History(context.Background(), models.QuizFilter{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, err.(*apperrors.AppError).Code)
}

func TestPlayerStats(t *testing.T) {
	repo := new(mocks.MockHistoryRepository)
	repo.On("Stats", mock.Anything, "ada").Return(&models.QuizStats{
		TotalQuizzes:      3,
		TotalQuestions:    30,
		TotalCorrect:      21,
		AveragePercentage: 70,
	}, nil)

	svc := services.NewStatsService(repo)
	stats, err := svc.PlayerStats(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalQuizzes)
	assert.InDelta(t, 70.0, stats.AveragePercentage, 0.01)
}

func TestPlayerStats_EmptyName(t *testing.T) {
	svc := services.NewStatsService(new(mocks.MockHistoryRepository))
	_, err := svc.PlayerStats(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, err.(*apperrors.AppError).Code)
}
