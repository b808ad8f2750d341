package worker

import (
	"context"

	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/repository"
)

// PersistQuizJob writes one finished quiz to the history store in the
// background so finishing a round never waits on disk.
type PersistQuizJob struct {
	HistoryRepo repository.HistoryRepository
	Record      models.QuizRecord
}

func (j *PersistQuizJob) Name() string { return "persist_quiz" }

func (j *PersistQuizJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("player", j.Record.PlayerName)

	id, err := j.HistoryRepo.Insert(ctx, j.Record)
	if err != nil {
		log.Error("failed to persist quiz record: %v", err)
		return err
	}
	log.Debug("quiz record persisted: id=%d", id)
	return nil
}

// CategoryRefresher avoids importing the services package from here.
type CategoryRefresher interface {
	Refresh(ctx context.Context) error
}

// RefreshCategoriesJob re-reads the provider's category list into the cache.
type RefreshCategoriesJob struct {
	Categories CategoryRefresher
}

func (j *RefreshCategoriesJob) Name() string { return "refresh_categories" }

func (j *RefreshCategoriesJob) Run(ctx context.Context) error {
	return j.Categories.Refresh(ctx)
}
