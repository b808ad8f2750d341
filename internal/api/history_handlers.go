package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/models"
)

func historyFilter(r *http.Request) models.QuizFilter {
	filter := models.QuizFilter{
		PlayerName: r.URL.Query().Get("player"),
		Difficulty: r.URL.Query().Get("difficulty"),
		Category:   r.URL.Query().Get("category"),
		Limit:      50,
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 200 {
		filter.Limit = l
	}
	return filter
}

func (s *Server) handleHistoryPage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	filter := historyFilter(r)
	if filter.PlayerName == "" {
		filter.PlayerName = playerNameFromContext(r.Context())
	}

	log.Debug("rendering history page: player=%s", filter.PlayerName)

	records, err := s.Stats.History(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var stats *models.QuizStats
	if filter.PlayerName != "" {
		stats, err = s.Stats.PlayerStats(r.Context(), filter.PlayerName)
		if err != nil {
			log.Warn("failed to compute player stats: %v", err)
			stats = nil
		}
	}

	s.render(w, r, "pages/history.html", pageData{
		"records": records,
		"stats":   stats,
		"filter":  filter,
	})
}

func (s *Server) handleHistoryJSON(w http.ResponseWriter, r *http.Request) {
	records, err := s.Stats.History(r.Context(), historyFilter(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")
	stats, err := s.Stats.PlayerStats(r.Context(), player)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
