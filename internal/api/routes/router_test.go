package routes_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paramveeRana/brainstroke3/internal/api/handlers"
	"github.com/paramveeRana/brainstroke3/internal/api/routes"
	"github.com/paramveeRana/brainstroke3/internal/application/services"
)

func newHandler(withAssessments bool) http.Handler {
	service := services.NewAssessmentService(nil, nil, nil, nil, nil)
	var assessmentHandler *handlers.AssessmentHandler
	var streamHandler *handlers.StreamHandler
	if withAssessments {
		assessmentHandler = handlers.NewAssessmentHandler(service)
		streamHandler = handlers.NewStreamHandler(nil)
	}
	router := routes.NewRouter(
		handlers.NewHealthHandler(nil),
		handlers.NewRiskHandler(service),
		assessmentHandler,
		streamHandler,
		[]string{"*"},
		nil,
	)
	return router.SetupRoutes()
}

func TestRouter_Routes(t *testing.T) {
	handler := newHandler(true)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/risk/factors", "", http.StatusOK},
		{http.MethodPost, "/api/risk/calculate", `{"age":30,"gender":"Female","height":165,"weight":60,"smoking_status":"Never Smoked"}`, http.StatusOK},
		{http.MethodGet, "/api/risk/calculate", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/assessments", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/assessments/stream", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
		{http.MethodOptions, "/api/assessments", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Origin", "https://app.example.com")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRouter_WithoutAssessmentStore(t *testing.T) {
	handler := newHandler(false)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/assessments", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
