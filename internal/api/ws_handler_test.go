package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lucasmv/triviarush/internal/models"
	"github.com/lucasmv/triviarush/internal/quiz"
	"github.com/lucasmv/triviarush/internal/services"
)

func readEvent(t *testing.T, conn *websocket.Conn) quiz.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev quiz.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestQuizSocket_AnswerFlow(t *testing.T) {
	srv, provider := testServer(t)
	provider.On("FetchQuestions", mock.Anything, mock.Anything).
		Return([]models.Question{capitalQuestion()}, nil)

	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	rec := postJSON(t, srv.Routes(), "/api/quiz", services.StartQuizRequest{
		PlayerName:    "ada",
		Difficulty:    "easy",
		QuestionCount: 1,
	})
	var snap quiz.GameSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/quiz/" + snap.Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Catch-up event first: the current question.
	ev := readEvent(t, conn)
	require.Equal(t, quiz.EventQuestion, ev.Type)
	require.NotNil(t, ev.Round)
	assert.Empty(t, ev.Round.CorrectAnswer)

	answer := map[string]any{
		"type":    "answer",
		"payload": map[string]any{"choice": "Paris"},
	}
	require.NoError(t, conn.WriteJSON(answer))

	// Resolution then summary arrive through the stream.
	var sawResolved, sawFinished bool
	for i := 0; i < 3 && !sawFinished; i++ {
		ev := readEvent(t, conn)
		switch ev.Type {
		case quiz.EventResolved:
			sawResolved = true
			require.NotNil(t, ev.Round)
			assert.Equal(t, "correct", ev.Round.Outcome)
			assert.Equal(t, "Paris", ev.Round.CorrectAnswer)
		case quiz.EventFinished:
			sawFinished = true
			require.NotNil(t, ev.Summary)
			assert.Equal(t, 100, ev.Summary.Percentage)
		}
	}
	assert.True(t, sawResolved, "expected a resolved event")
	assert.True(t, sawFinished, "expected a finished event")
}

func TestQuizSocket_ClientDisconnect(t *testing.T) {
	srv, provider := testServer(t)
	provider.On("FetchQuestions", mock.Anything, mock.Anything).
		Return([]models.Question{capitalQuestion(), capitalQuestion()}, nil)

	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	rec := postJSON(t, srv.Routes(), "/api/quiz", services.StartQuizRequest{
		PlayerName:    "ada",
		Difficulty:    "easy",
		QuestionCount: 2,
	})
	var snap quiz.GameSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/quiz/" + snap.Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	ev := readEvent(t, conn)
	require.Equal(t, quiz.EventQuestion, ev.Type)

	// Drop the connection without a close handshake. The quiz keeps
	// running and must stay reachable over HTTP afterwards.
	require.NoError(t, conn.UnderlyingConn().Close())

	for i := 0; i < 2; i++ {
		rec := postJSON(t, srv.Routes(), "/api/quiz/"+snap.Token+"/answer", services.AnswerRequest{Choice: "Paris"})
		assert.Equal(t, 200, rec.Code)
		time.Sleep(20 * time.Millisecond)
	}

	req := httptest.NewRequest("GET", "/api/quiz/"+snap.Token, nil)
	state := httptest.NewRecorder()
	srv.Routes().ServeHTTP(state, req)
	assert.Equal(t, 200, state.Code)
}

func TestQuizSocket_UnknownToken(t *testing.T) {
	srv, _ := testServer(t)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/quiz/nope"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}
