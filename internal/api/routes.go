package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(playerNameMiddleware)

	r.Get("/", s.handleHome)
	r.Post("/quiz", s.handleStartQuizForm)
	r.Get("/play/{token}", s.handlePlay)
	r.Get("/results/{token}", s.handleResults)
	r.Get("/leaderboard", s.handleLeaderboardPage)
	r.Get("/history", s.handleHistoryPage)

	r.Route("/api", func(r chi.Router) {
		r.Post("/quiz", s.handleStartQuiz)
		r.Get("/quiz/{token}", s.handleQuizState)
		r.Post("/quiz/{token}/answer", s.handleAnswer)
		r.Post("/quiz/{token}/abandon", s.handleAbandon)
		r.Get("/leaderboard", s.handleLeaderboardJSON)
		r.Get("/categories", s.handleCategories)
		r.Get("/history", s.handleHistoryJSON)
		r.Get("/stats/{player}", s.handlePlayerStats)
	})

	r.Get("/ws/quiz/{token}", s.handleQuizSocket)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	return r
}
