package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lucasmv/triviarush/internal/errors"
	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/services"
)

// handleStartQuiz starts a quiz from a JSON body and returns the first
// round. The countdown is already running when the response goes out.
func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	var req services.StartQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	snap, err := s.Quiz.StartQuiz(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, snap)
}

// handleStartQuizForm is the setup page's form target. It redirects to the
// play page, where the client picks the quiz up over the socket.
func (s *Server) handleStartQuizForm(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	count, _ := strconv.Atoi(r.FormValue("question_count"))
	categoryID, _ := strconv.Atoi(r.FormValue("category_id"))
	req := services.StartQuizRequest{
		PlayerName:    strings.TrimSpace(r.FormValue("player_name")),
		CategoryID:    categoryID,
		Difficulty:    r.FormValue("difficulty"),
		QuestionCount: count,
	}

	snap, err := s.Quiz.StartQuiz(r.Context(), req)
	if err != nil {
		log.Warn("quiz setup rejected: %v", err)
		s.renderHome(w, r, req, err)
		return
	}

	setPlayerCookie(w, req.PlayerName)
	http.Redirect(w, r, "/play/"+snap.Token, http.StatusSeeOther)
}

func (s *Server) handleQuizState(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	snap, err := s.Quiz.State(r.Context(), token)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req services.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	snap, err := s.Quiz.Answer(r.Context(), token, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := s.Quiz.Abandon(r.Context(), token); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.Categories.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"categories": categories})
}

func (s *Server) handleLeaderboardJSON(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Leaderboard.Top(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"entries": entries})
}
