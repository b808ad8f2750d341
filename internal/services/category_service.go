package services

import (
	"context"
	"sync"
	"time"

	"github.com/lucasmv/triviarush/internal/errors"
	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/opentdb"
)

// CategoryService serves the provider's category list from an in-memory
// cache so the setup page doesn't hit the provider on every render.
type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Name(ctx context.Context, id int) string
	Refresh(ctx context.Context) error
}

type categoryService struct {
	provider opentdb.ClientInterface
	maxAge   time.Duration

	mu        sync.Mutex
	cached    []models.Category
	fetchedAt time.Time
}

// NewCategoryService creates a new CategoryService with the given cache age.
func NewCategoryService(provider opentdb.ClientInterface, maxAge time.Duration) CategoryService {
	return &categoryService{
		provider: provider,
		maxAge:   maxAge,
	}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	fresh := s.cached != nil && time.Since(s.fetchedAt) < s.maxAge
	cached := s.cached
	s.mu.Unlock()

	if fresh {
		log.Debug("serving %d categories from cache", len(cached))
		return cached, nil
	}

	if err := s.Refresh(ctx); err != nil {
		// A stale list beats an error on the setup page.
		if cached != nil {
			log.Warn("category refresh failed, serving stale cache: %v", err)
			return cached, nil
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cached, nil
}

func (s *categoryService) Name(ctx context.Context, id int) string {
	if id <= 0 {
		return ""
	}
	categories, err := s.List(ctx)
	if err != nil {
		return ""
	}
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func (s *categoryService) Refresh(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Debug("refreshing category cache")

	categories, err := s.provider.FetchCategories(ctx)
	if err != nil {
		log.Error("failed to fetch categories: %v", err)
		if _, ok := err.(*errors.AppError); ok {
			return err
		}
		return errors.NewProviderError(err)
	}

	s.mu.Lock()
	s.cached = categories
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	log.Info("category cache refreshed: %d categories", len(categories))
	return nil
}
