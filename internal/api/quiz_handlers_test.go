package api

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/quiz"
	"github.com/lucasmv/triviarush/internal/repository/file"
	"github.com/lucasmv/triviarush/internal/services"
	"github.com/lucasmv/triviarush/internal/testutil/mocks"
)

func testServer(t *testing.T) (*Server, *mocks.MockProviderClient) {
	t.Helper()

	provider := new(mocks.MockProviderClient)
	provider.On("FetchCategories", mock.Anything).Return([]models.Category{
		{ID: 9, Name: "General Knowledge"},
	}, nil).Maybe()

	hub := quiz.NewHub(time.Minute)
	store := file.NewScoreStore(filepath.Join(t.TempDir(), "highscores.json"))
	lb := services.NewLeaderboardService(store, 10)
	categories := services.NewCategoryService(provider, time.Hour)
	history := new(mocks.MockHistoryRepository)
	history.On("List", mock.Anything, mock.Anything).Return([]models.QuizRecord{}, nil).Maybe()
	history.On("Stats", mock.Anything, mock.Anything).Return(&models.QuizStats{}, nil).Maybe()

	opts := quiz.Options{
		RoundSeconds:   15,
		LowTimeSeconds: 5,
		RevealDelay:    5 * time.Millisecond,
		TickInterval:   time.Hour,
		Rand:           rand.New(rand.NewSource(7)),
	}
	svc := services.NewQuizService(provider, hub, opts, lb, categories, nil, nil, 50)

	return &Server{
		Quiz:        svc,
		Leaderboard: lb,
		Categories:  categories,
		Stats:       services.NewStatsService(history),
	}, provider
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func capitalQuestion() models.Question {
	return models.Question{
		Category:         "Geography",
		Difficulty:       models.DifficultyEasy,
		Text:             "What is the capital of France?",
		CorrectAnswer:    "Paris",
		IncorrectAnswers: []string{"Lyon", "Nice", "Dijon"},
	}
}

func TestStartQuizEndpoint(t *testing.T) {
	srv, provider := testServer(t)
	provider.On("FetchQuestions", mock.Anything, mock.Anything).
		Return([]models.Question{capitalQuestion()}, nil)
	handler := srv.Routes()

	rec := postJSON(t, handler, "/api/quiz", services.StartQuizRequest{
		PlayerName:    "ada",
		Difficulty:    "easy",
		QuestionCount: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var snap quiz.GameSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.NotEmpty(t, snap.Token)
	require.NotNil(t, snap.Round)
	assert.Equal(t, "What is the capital of France?", snap.Round.Question)
	assert.Len(t, snap.Round.Choices, 4)
	assert.Empty(t, snap.Round.CorrectAnswer, "correct answer must not leak before resolution")
}

func TestStartQuizEndpoint_ValidationError(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Routes()

	rec := postJSON(t, handler, "/api/quiz", services.StartQuizRequest{
		PlayerName:    "",
		Difficulty:    "easy",
		QuestionCount: 1,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body["error"]["code"])
}

func TestAnswerEndpoint(t *testing.T) {
	srv, provider := testServer(t)
	provider.On("FetchQuestions", mock.Anything, mock.Anything).
		Return([]models.Question{capitalQuestion(), capitalQuestion()}, nil)
	handler := srv.Routes()

	rec := postJSON(t, handler, "/api/quiz", services.StartQuizRequest{
		PlayerName:    "ada",
		Difficulty:    "easy",
		QuestionCount: 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var snap quiz.GameSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))

	rec = postJSON(t, handler, "/api/quiz/"+snap.Token+"/answer", services.AnswerRequest{Choice: "paris"})
	require.Equal(t, http.StatusOK, rec.Code)

	var round quiz.RoundSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &round))
	assert.Equal(t, "correct", round.Outcome)
	assert.Equal(t, "Paris", round.CorrectAnswer)
	assert.Equal(t, 1, round.Score)

	// A second answer for the same round changes nothing.
	rec = postJSON(t, handler, "/api/quiz/"+snap.Token+"/answer", services.AnswerRequest{Choice: "Lyon"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAnswerEndpoint_UnknownToken(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Routes()

	rec := postJSON(t, handler, "/api/quiz/nope/answer", services.AnswerRequest{Choice: "Paris"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoriesEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []models.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Categories, 1)
	assert.Equal(t, "General Knowledge", body.Categories[0].Name)
}

func TestLeaderboardEndpoint_Empty(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Entries []models.HighScoreEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Entries)
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Routes()

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
