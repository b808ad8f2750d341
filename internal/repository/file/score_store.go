package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/repository"
)

// scoreStore keeps the leaderboard in a single JSON file: one ordered list
// of entries, rewritten whole on every save.
type scoreStore struct {
	path string
	log  *logger.Logger
}

// NewScoreStore creates a file-backed ScoreStore at the given path.
func NewScoreStore(path string) repository.ScoreStore {
	return &scoreStore{
		path: path,
		log:  logger.Default().WithPrefix("score_file"),
	}
}

// Load reads the leaderboard. A missing, unreadable or malformed file is
// treated as empty history, never as an error.
func (s *scoreStore) Load(ctx context.Context) ([]models.HighScoreEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to read %s, treating as empty: %v", s.path, err)
		}
		return []models.HighScoreEntry{}, nil
	}

	var entries []models.HighScoreEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warn("corrupt leaderboard file %s, treating as empty: %v", s.path, err)
		return []models.HighScoreEntry{}, nil
	}
	return entries, nil
}

// Save rewrites the leaderboard atomically via a temp file rename.
func (s *scoreStore) Save(ctx context.Context, entries []models.HighScoreEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".highscores-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}

	s.log.Debug("saved %d leaderboard entries to %s", len(entries), s.path)
	return nil
}
