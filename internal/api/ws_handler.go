package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/quiz"
	"github.com/lucasmv/triviarush/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-host browser app; the play page is the only client.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// handleQuizSocket streams countdown ticks, reveals and the final summary
// to the play page, and accepts answers over the same connection. All
// writes go through a single goroutine; gorilla connections do not allow
// concurrent writers.
func (s *Server) handleQuizSocket(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	token := chi.URLParam(r, "token")

	runner := s.Quiz.Runner(token)
	if runner == nil {
		http.Error(w, "quiz not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := runner.Subscribe()
	defer cancel()

	send := make(chan any, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("websocket write failed: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- ev:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	// A dead writer means the connection is gone; sends must not block
	// forever while the read side is still draining.
	trySend := func(msg any) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	// The client may connect mid-round after a reload; catch it up first.
	snap := runner.Snapshot()
	if snap.Finished {
		trySend(quiz.Event{Type: quiz.EventFinished, Summary: snap.Summary})
	} else if snap.Round != nil {
		trySend(quiz.Event{Type: quiz.EventQuestion, Round: snap.Round})
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var req services.AnswerRequest
			if err := json.Unmarshal(inbound.Payload, &req); err != nil {
				trySend(map[string]any{"type": "error", "payload": errorPayload{Message: "invalid answer payload"}})
				continue
			}
			// The resolved snapshot reaches the client through the
			// event stream, not as a direct reply.
			if _, err := s.Quiz.Answer(r.Context(), token, req); err != nil {
				trySend(map[string]any{"type": "error", "payload": errorPayload{Message: err.Error()}})
			}
		default:
			trySend(map[string]any{"type": "error", "payload": errorPayload{Message: "unsupported message type"}})
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}
