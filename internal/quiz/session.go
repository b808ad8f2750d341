package quiz

import (
	"math"

	"github.com/lucasmv/triviarush/internal/models"
)

// Config is the player-chosen setup for one quiz.
type Config struct {
	PlayerName    string
	CategoryID    int    // 0 means any category
	CategoryName  string // display name, resolved from the provider list
	Difficulty    string
	QuestionCount int
}

// Session tracks one quiz from start to finish: the fetched question set,
// the running score and the current position. The question set is immutable
// after construction. Session carries no locking: only the active round's
// runner mutates it, one round at a time.
type Session struct {
	cfg       Config
	questions []models.Question
	score     int
	current   int
}

// NewSession creates a session over an already-fetched question set.
func NewSession(cfg Config, questions []models.Question) *Session {
	return &Session{
		cfg:       cfg,
		questions: questions,
	}
}

// Config returns the session's configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Score returns the number of correctly answered questions so far.
func (s *Session) Score() int {
	return s.score
}

// QuestionCount returns the size of the question set.
func (s *Session) QuestionCount() int {
	return len(s.questions)
}

// CurrentIndex returns the zero-based position of the question being played.
func (s *Session) CurrentIndex() int {
	return s.current
}

// CurrentQuestion returns the question at the current position, or nil when
// the session has run out of questions. It never panics.
func (s *Session) CurrentQuestion() *models.Question {
	if s.current < 0 || s.current >= len(s.questions) {
		return nil
	}
	return &s.questions[s.current]
}

// IncrementScore adds one correct answer. Callers must invoke it at most
// once per round; the resolution gate in Round guarantees that.
func (s *Session) IncrementScore() {
	s.score++
}

// Advance moves to the next question and reports whether one exists. It is
// the only way to progress the session and must be called exactly once per
// round: a second call would skip a question.
func (s *Session) Advance() bool {
	s.current++
	return s.current < len(s.questions)
}

// Complete reports whether every question has been played.
func (s *Session) Complete() bool {
	return s.current >= len(s.questions)
}

// ScorePercentage returns the score as a rounded percentage of the question
// count. An empty question set yields 0 rather than dividing by zero.
func (s *Session) ScorePercentage() int {
	return Percentage(s.score, len(s.questions))
}

// Percentage computes round(100*score/total), with total 0 defined as 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
