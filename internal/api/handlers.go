package api

import (
	"html/template"
	"net/http"

	"github.com/lucasmv/triviarush/internal/db"
	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/services"
)

type Server struct {
	DB          *db.DB
	Quiz        services.QuizService
	Leaderboard services.LeaderboardService
	Categories  services.CategoryService
	Stats       services.StatsService
	Templates   *template.Template

	// DefaultQuestionCount pre-fills the setup form. Zero falls back to 10.
	DefaultQuestionCount int
}

type pageData map[string]any

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}
	if _, ok := data["player_name"]; !ok {
		data["player_name"] = playerNameFromContext(r.Context())
	}

	log := logger.FromContext(r.Context())
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
