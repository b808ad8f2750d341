package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/repository/file"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "highscores.json")
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	store := file.NewScoreStore(tempStorePath(t))

	entries, err := store.Load(context.Background())
	require.NoError(t, err, "absent storage must read as empty, not error")
	assert.Empty(t, entries)
}

func TestLoad_CorruptFileIsEmpty(t *testing.T) {
	path := tempStorePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json at all"), 0o644))

	store := file.NewScoreStore(path)
	entries, err := store.Load(context.Background())
	require.NoError(t, err, "corruption is silently treated as no history")
	assert.Empty(t, entries)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := tempStorePath(t)
	store := file.NewScoreStore(path)
	ctx := context.Background()

	entries := []models.HighScoreEntry{
		{Name: "ada", Score: 9, Total: 10, Percentage: 90, Difficulty: "hard", Date: time.Now().UTC().Truncate(time.Second)},
		{Name: "bob", Score: 5, Total: 10, Percentage: 50, Difficulty: "easy", Date: time.Now().UTC().Truncate(time.Second)},
	}
	require.NoError(t, store.Save(ctx, entries))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "ada", loaded[0].Name)
	assert.Equal(t, 90, loaded[0].Percentage)
}

func TestSave_OverwritesPrevious(t *testing.T) {
	path := tempStorePath(t)
	store := file.NewScoreStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []models.HighScoreEntry{{Name: "old", Percentage: 10}}))
	require.NoError(t, store.Save(ctx, []models.HighScoreEntry{{Name: "new", Percentage: 99}}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].Name)
}
