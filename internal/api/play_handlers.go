package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucasmv/triviarush/internal/logger"
)

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	token := chi.URLParam(r, "token")

	snap, err := s.Quiz.State(r.Context(), token)
	if err != nil {
		log.Warn("play page for unknown quiz: %s", token)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if snap.Finished {
		http.Redirect(w, r, "/results/"+token, http.StatusSeeOther)
		return
	}

	s.render(w, r, "pages/play.html", pageData{
		"token": token,
		"state": snap,
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	token := chi.URLParam(r, "token")

	runner := s.Quiz.Runner(token)
	if runner == nil {
		log.Warn("results page for unknown quiz: %s", token)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	summary := runner.Summary()
	if summary == nil {
		// Still in progress.
		http.Redirect(w, r, "/play/"+token, http.StatusSeeOther)
		return
	}

	entries, err := s.Leaderboard.Top(r.Context())
	if err != nil {
		log.Warn("failed to load leaderboard for results page: %v", err)
	}

	s.render(w, r, "pages/results.html", pageData{
		"token":   token,
		"summary": summary,
		"entries": entries,
	})
}
