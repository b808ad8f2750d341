package api

import (
	"net/http"

	"github.com/lucasmv/triviarush/internal/logger"
)

func (s *Server) handleLeaderboardPage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("rendering leaderboard page")

	entries, err := s.Leaderboard.Top(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	s.render(w, r, "pages/leaderboard.html", pageData{
		"entries": entries,
	})
}
