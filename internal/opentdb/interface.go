package opentdb

import (
	"context"

	"github.com/lucasmv/triviarush/internal/models"
)

// ClientInterface defines the interface for question provider operations.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	FetchQuestions(ctx context.Context, req QuestionRequest) ([]models.Question, error)
	FetchCategories(ctx context.Context) ([]models.Category, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
