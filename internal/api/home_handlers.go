package api

import (
	"net/http"

	"github.com/lucasmv/triviarush/internal/errors"
	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/services"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("rendering setup page")

	count := s.DefaultQuestionCount
	if count <= 0 {
		count = 10
	}
	s.renderHome(w, r, services.StartQuizRequest{
		PlayerName:    playerNameFromContext(r.Context()),
		QuestionCount: count,
	}, nil)
}

// renderHome shows the setup form, optionally echoing back a rejected
// submission with its validation error.
func (s *Server) renderHome(w http.ResponseWriter, r *http.Request, form services.StartQuizRequest, formErr error) {
	log := logger.FromContext(r.Context())

	categories, err := s.Categories.List(r.Context())
	if err != nil {
		// The form still works without categories: any-category quizzes
		// don't need the list.
		log.Warn("failed to load categories for setup page: %v", err)
		categories = nil
	}

	var errMsg string
	if formErr != nil {
		if appErr, ok := formErr.(*errors.AppError); ok {
			errMsg = appErr.Message
		} else {
			errMsg = formErr.Error()
		}
	}

	s.render(w, r, "pages/home.html", pageData{
		"categories": categories,
		"form":       form,
		"error":      errMsg,
	})
}
