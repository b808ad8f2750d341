package quiz

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Hub is the in-memory registry of running quizzes, keyed by session token.
// One runner per token, one active round per runner.
type Hub struct {
	mu    sync.Mutex
	games map[string]*Runner
	ttl   time.Duration
}

// NewHub creates a hub. Runners idle longer than ttl are removed by Sweep.
func NewHub(ttl time.Duration) *Hub {
	return &Hub{
		games: make(map[string]*Runner),
		ttl:   ttl,
	}
}

// Create registers a new runner for the session under a fresh token.
func (h *Hub) Create(session *Session, opts Options, endFn EndFunc) *Runner {
	token := uuid.NewString()
	runner := NewRunner(token, session, opts, endFn)

	h.mu.Lock()
	h.games[token] = runner
	h.mu.Unlock()
	return runner
}

// Get returns the runner for the token, or nil if unknown.
func (h *Hub) Get(token string) *Runner {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.games[token]
}

// Remove drops and stops the runner for the token.
func (h *Hub) Remove(token string) {
	h.mu.Lock()
	runner := h.games[token]
	delete(h.games, token)
	h.mu.Unlock()

	if runner != nil {
		runner.Stop()
	}
}

// Len returns the number of registered runners.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.games)
}

// Sweep removes runners that have been idle past the TTL and returns how
// many were dropped. Finished runners are kept until they expire so the
// results page can still read their summary.
func (h *Hub) Sweep() int {
	cutoff := time.Now().Add(-h.ttl)

	h.mu.Lock()
	var stale []*Runner
	for token, runner := range h.games {
		if runner.LastActive().Before(cutoff) {
			stale = append(stale, runner)
			delete(h.games, token)
		}
	}
	h.mu.Unlock()

	for _, runner := range stale {
		runner.Stop()
	}
	return len(stale)
}
