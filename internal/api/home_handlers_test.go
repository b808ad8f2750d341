package api

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeUsesConfiguredQuestionCount(t *testing.T) {
	srv, _ := testServer(t)
	srv.DefaultQuestionCount = 15
	srv.Templates = template.Must(template.New("t").Parse(
		`{{define "pages/home.html"}}count={{.form.QuestionCount}}{{end}}`))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "count=15")
}

func TestHomeFallsBackToTenQuestions(t *testing.T) {
	srv, _ := testServer(t)
	srv.Templates = template.Must(template.New("t").Parse(
		`{{define "pages/home.html"}}count={{.form.QuestionCount}}{{end}}`))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "count=10")
}
