package services_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lucasmv/triviarush/internal/errors"
	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/repository/file"
	"github.com/lucasmv/triviarush/internal/services"
	"github.com/lucasmv/triviarush/internal/testutil/mocks"
)

func newLeaderboard(t *testing.T) services.LeaderboardService {
	t.Helper()
	store := file.NewScoreStore(filepath.Join(t.TempDir(), "highscores.json"))
	return services.NewLeaderboardService(store, 10)
}

func entry(name string, percentage int) models.HighScoreEntry {
	return models.HighScoreEntry{
		Name:       name,
		Score:      percentage / 10,
		Total:      10,
		Percentage: percentage,
		Difficulty: models.DifficultyMedium,
		Date:       time.Now(),
	}
}

func TestQualifies_AlwaysUnderTen(t *testing.T) {
	lb := newLeaderboard(t)
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		_, err := lb.Record(ctx, entry(fmt.Sprintf("p%d", i), 50+i))
		require.NoError(t, err)
	}

	// Nine entries: even 0% qualifies.
	ok, err := lb.Qualifies(ctx, 0)
	require.NoError(t, err)
	assert.True(t, ok, "fewer than ten entries always qualifies")
}

func TestQualifies_TieDoesNotQualify(t *testing.T) {
	lb := newLeaderboard(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := lb.Record(ctx, entry(fmt.Sprintf("p%d", i), 40+i))
		require.NoError(t, err)
	}
	// Board is 49..40; tenth place is 40.

	ok, err := lb.Qualifies(ctx, 40)
	require.NoError(t, err)
	assert.False(t, ok, "tying the tenth place must not qualify")

	ok, err = lb.Qualifies(ctx, 41)
	require.NoError(t, err)
	assert.True(t, ok, "beating the tenth place qualifies")
}

func TestRecord_KeepsTopTenDescending(t *testing.T) {
	lb := newLeaderboard(t)
	ctx := context.Background()

	// Eleven distinct percentages: 30, 36, ..., 90.
	for i := 0; i <= 10; i++ {
		_, err := lb.Record(ctx, entry(fmt.Sprintf("p%d", i), 30+i*6))
		require.NoError(t, err)
	}

	top, err := lb.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 10, "board capped at ten entries")

	assert.Equal(t, 90, top[0].Percentage)
	assert.Equal(t, 36, top[9].Percentage, "the lowest (30) was evicted")
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Percentage, top[i].Percentage, "descending order")
	}
}

func TestRecord_JustSetScoreVisibleInOwnBoard(t *testing.T) {
	lb := newLeaderboard(t)
	ctx := context.Background()

	board, err := lb.Record(ctx, entry("ada", 77))
	require.NoError(t, err)

	require.Len(t, board, 1)
	assert.Equal(t, "ada", board[0].Name, "recorded entry appears in the returned board")
}

func TestTop_EmptyBoard(t *testing.T) {
	lb := newLeaderboard(t)

	top, err := lb.Top(context.Background())
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestLeaderboard_StoreFailuresWrapped(t *testing.T) {
	ctx := context.Background()

	store := new(mocks.MockScoreStore)
	store.On("Load", mock.Anything).Return(nil, fmt.Errorf("disk gone"))
	lb := services.NewLeaderboardService(store, 10)

	_, err := lb.Top(ctx)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, err.(*apperrors.AppError).Code)

	_, err = lb.Qualifies(ctx, 50)
	require.Error(t, err)

	saveFail := new(mocks.MockScoreStore)
	saveFail.On("Load", mock.Anything).Return([]models.HighScoreEntry{}, nil)
	saveFail.On("Save", mock.Anything, mock.Anything).Return(fmt.Errorf("disk gone"))
	lb = services.NewLeaderboardService(saveFail, 10)

	_, err = lb.Record(ctx, entry("ada", 50))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, err.(*apperrors.AppError).Code)
}
