package services

import (
	"context"

	"github.com/lucasmv/triviarush/internal/errors"
	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/opentdb"
	"github.com/lucasmv/triviarush/internal/quiz"
	"github.com/lucasmv/triviarush/internal/repository"
	"github.com/lucasmv/triviarush/internal/worker"
)

// StartQuizRequest is the player's setup for a new quiz.
type StartQuizRequest struct {
	PlayerName    string `json:"player_name"`
	CategoryID    int    `json:"category_id"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
}

// AnswerRequest resolves the current round. Either Choice (answer text) or
// ChoiceIndex (0-based position in the shuffled order, for keys 1-4) is set.
type AnswerRequest struct {
	Choice      string `json:"choice"`
	ChoiceIndex *int   `json:"choice_index"`
}

// QuizService handles quiz lifecycle business logic
type QuizService interface {
	StartQuiz(ctx context.Context, req StartQuizRequest) (quiz.GameSnapshot, error)
	State(ctx context.Context, token string) (quiz.GameSnapshot, error)
	Answer(ctx context.Context, token string, req AnswerRequest) (quiz.RoundSnapshot, error)
	Abandon(ctx context.Context, token string) error
	Runner(token string) *quiz.Runner
}

type quizService struct {
	provider     opentdb.ClientInterface
	hub          *quiz.Hub
	opts         quiz.Options
	leaderboard  LeaderboardService
	categories   CategoryService
	historyRepo  repository.HistoryRepository
	persistPool  *worker.Pool
	maxQuestions int
}

// NewQuizService creates a new QuizService
func NewQuizService(
	provider opentdb.ClientInterface,
	hub *quiz.Hub,
	opts quiz.Options,
	leaderboard LeaderboardService,
	categories CategoryService,
	historyRepo repository.HistoryRepository,
	persistPool *worker.Pool,
	maxQuestions int,
) QuizService {
	return &quizService{
		provider:     provider,
		hub:          hub,
		opts:         opts,
		leaderboard:  leaderboard,
		categories:   categories,
		historyRepo:  historyRepo,
		persistPool:  persistPool,
		maxQuestions: maxQuestions,
	}
}

func (s *quizService) StartQuiz(ctx context.Context, req StartQuizRequest) (quiz.GameSnapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting quiz: player=%s, difficulty=%s, count=%d, category=%d",
		req.PlayerName, req.Difficulty, req.QuestionCount, req.CategoryID)

	if req.PlayerName == "" {
		return quiz.GameSnapshot{}, errors.NewValidationError("player_name", "cannot be empty")
	}
	if !models.ValidDifficulty(req.Difficulty) {
		return quiz.GameSnapshot{}, errors.NewValidationError("difficulty", "must be 'easy', 'medium', or 'hard'")
	}
	if req.QuestionCount < 1 {
		return quiz.GameSnapshot{}, errors.NewValidationError("question_count", "must be at least 1")
	}
	if req.QuestionCount > s.maxQuestions {
		return quiz.GameSnapshot{}, errors.NewValidationError("question_count", "too many questions requested")
	}

	questions, err := s.provider.FetchQuestions(ctx, opentdb.QuestionRequest{
		Amount:     req.QuestionCount,
		Difficulty: req.Difficulty,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		log.Error("failed to fetch questions: %v", err)
		if _, ok := err.(*errors.AppError); ok {
			return quiz.GameSnapshot{}, err
		}
		return quiz.GameSnapshot{}, errors.NewProviderError(err)
	}

	cfg := quiz.Config{
		PlayerName:    req.PlayerName,
		CategoryID:    req.CategoryID,
		CategoryName:  s.categories.Name(ctx, req.CategoryID),
		Difficulty:    req.Difficulty,
		QuestionCount: req.QuestionCount,
	}

	session := quiz.NewSession(cfg, questions)
	runner := s.hub.Create(session, s.opts, s.finalize)
	runner.Start()

	log.Info("quiz started: token=%s, player=%s, questions=%d", runner.Token(), req.PlayerName, len(questions))
	return runner.Snapshot(), nil
}

func (s *quizService) State(ctx context.Context, token string) (quiz.GameSnapshot, error) {
	runner := s.hub.Get(token)
	if runner == nil {
		return quiz.GameSnapshot{}, errors.NewNotFoundError("quiz", token)
	}
	return runner.Snapshot(), nil
}

func (s *quizService) Answer(ctx context.Context, token string, req AnswerRequest) (quiz.RoundSnapshot, error) {
	log := logger.FromContext(ctx)

	runner := s.hub.Get(token)
	if runner == nil {
		return quiz.RoundSnapshot{}, errors.NewNotFoundError("quiz", token)
	}

	var snap quiz.RoundSnapshot
	var resolved bool
	if req.ChoiceIndex != nil {
		snap, resolved = runner.SubmitAnswerIndex(*req.ChoiceIndex)
	} else {
		snap, resolved = runner.SubmitAnswer(req.Choice)
	}

	// A late or repeated answer is not an error: the snapshot simply
	// reports the outcome that already stands.
	if !resolved {
		log.Debug("answer ignored for token=%s: round already resolved or quiz over", token)
	}
	return snap, nil
}

func (s *quizService) Abandon(ctx context.Context, token string) error {
	if s.hub.Get(token) == nil {
		return errors.NewNotFoundError("quiz", token)
	}
	s.hub.Remove(token)
	logger.FromContext(ctx).Info("quiz abandoned: token=%s", token)
	return nil
}

func (s *quizService) Runner(token string) *quiz.Runner {
	return s.hub.Get(token)
}

// finalize runs once per quiz, when the last round has resolved. It decides
// high-score qualification, updates the leaderboard and queues the history
// write, then hands the summary back to the runner.
func (s *quizService) finalize(res quiz.Result) quiz.Summary {
	ctx := context.Background()
	log := logger.Default().WithField("player", res.PlayerName)
	log.Info("quiz finished: score=%d/%d (%d%%)", res.Score, res.Total, res.Percentage)

	summary := quiz.Summary{
		PlayerName: res.PlayerName,
		Category:   res.Category,
		Difficulty: res.Difficulty,
		Score:      res.Score,
		Total:      res.Total,
		Percentage: res.Percentage,
		TimedOut:   res.TimedOut,
	}

	qualifies, err := s.leaderboard.Qualifies(ctx, res.Percentage)
	if err != nil {
		log.Error("failed to check high-score qualification: %v", err)
	} else if qualifies {
		entry := models.HighScoreEntry{
			Name:       res.PlayerName,
			Score:      res.Score,
			Total:      res.Total,
			Percentage: res.Percentage,
			Difficulty: res.Difficulty,
			Date:       res.FinishedAt,
		}
		if _, err := s.leaderboard.Record(ctx, entry); err != nil {
			log.Error("failed to record high score: %v", err)
		} else {
			summary.NewHighScore = true
		}
	}

	if s.persistPool != nil && s.historyRepo != nil {
		s.persistPool.TrySubmit(&worker.PersistQuizJob{
			HistoryRepo: s.historyRepo,
			Record: models.QuizRecord{
				PlayerName: res.PlayerName,
				Category:   res.Category,
				Difficulty: res.Difficulty,
				Score:      res.Score,
				Total:      res.Total,
				Percentage: res.Percentage,
				TimedOut:   res.TimedOut,
				FinishedAt: res.FinishedAt,
			},
		})
	}

	return summary
}
