package services

import (
	"context"
	"sort"

	"github.com/lucasmv/triviarush/internal/errors"
	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/repository"
)

// LeaderboardService handles high-score ranking and persistence
type LeaderboardService interface {
	Top(ctx context.Context) ([]models.HighScoreEntry, error)
	Qualifies(ctx context.Context, percentage int) (bool, error)
	Record(ctx context.Context, entry models.HighScoreEntry) ([]models.HighScoreEntry, error)
}

type leaderboardService struct {
	store repository.ScoreStore
	size  int
}

// NewLeaderboardService creates a new LeaderboardService keeping the top
// `size` entries, descending by percentage.
func NewLeaderboardService(store repository.ScoreStore, size int) LeaderboardService {
	if size <= 0 {
		size = 10
	}
	return &leaderboardService{store: store, size: size}
}

func (s *leaderboardService) Top(ctx context.Context) ([]models.HighScoreEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("loading leaderboard")

	entries, err := s.store.Load(ctx)
	if err != nil {
		log.Error("failed to load leaderboard: %v", err)
		return nil, errors.NewInternalError(err)
	}

	sortEntries(entries)
	if len(entries) > s.size {
		entries = entries[:s.size]
	}
	return entries, nil
}

// Qualifies reports whether a percentage would enter the board: always when
// fewer than `size` entries exist, otherwise only when strictly greater
// than the lowest kept percentage. Ties do not qualify.
func (s *leaderboardService) Qualifies(ctx context.Context, percentage int) (bool, error) {
	entries, err := s.Top(ctx)
	if err != nil {
		return false, err
	}
	if len(entries) < s.size {
		return true, nil
	}
	return percentage > entries[len(entries)-1].Percentage, nil
}

// Record appends the entry, re-sorts descending by percentage, truncates to
// the board size and persists, so the just-set score appears in its own
// leaderboard read.
func (s *leaderboardService) Record(ctx context.Context, entry models.HighScoreEntry) ([]models.HighScoreEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording high score: name=%s, percentage=%d", entry.Name, entry.Percentage)

	entries, err := s.store.Load(ctx)
	if err != nil {
		log.Error("failed to load leaderboard: %v", err)
		return nil, errors.NewInternalError(err)
	}

	entries = append(entries, entry)
	sortEntries(entries)
	if len(entries) > s.size {
		entries = entries[:s.size]
	}

	if err := s.store.Save(ctx, entries); err != nil {
		log.Error("failed to save leaderboard: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("leaderboard updated: %d entries", len(entries))
	return entries, nil
}

func sortEntries(entries []models.HighScoreEntry) {
	// Stable so an older entry keeps its place over a tying newcomer.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Percentage > entries[j].Percentage
	})
}
