package routes

import (
	"net/http"

	"github.com/paramveeRana/brainstroke3/internal/api/handlers"
	"github.com/paramveeRana/brainstroke3/internal/api/middleware"
	"github.com/paramveeRana/brainstroke3/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	healthHandler     *handlers.HealthHandler
	riskHandler       *handlers.RiskHandler
	assessmentHandler *handlers.AssessmentHandler
	streamHandler     *handlers.StreamHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router. assessmentHandler may be nil when no
// store is configured; only stateless scoring is served then. streamHandler
// is nil when no event bus is available.
func NewRouter(
	healthHandler *handlers.HealthHandler,
	riskHandler *handlers.RiskHandler,
	assessmentHandler *handlers.AssessmentHandler,
	streamHandler *handlers.StreamHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		healthHandler:     healthHandler,
		riskHandler:       riskHandler,
		assessmentHandler: assessmentHandler,
		streamHandler:     streamHandler,
		allowedOrigins:    allowedOrigins,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Risk model endpoints
	r.mux.HandleFunc("POST /api/risk/calculate", r.riskHandler.Calculate)
	r.mux.HandleFunc("GET /api/risk/factors", r.riskHandler.Factors)

	// Assessment history endpoints
	if r.assessmentHandler != nil {
		r.mux.HandleFunc("POST /api/assessments", r.assessmentHandler.CreateAssessment)
		r.mux.HandleFunc("GET /api/assessments", r.assessmentHandler.ListAssessments)
		r.mux.HandleFunc("GET /api/assessments/{id}", r.assessmentHandler.GetAssessment)
	}
	if r.streamHandler != nil {
		r.mux.HandleFunc("GET /api/assessments/stream", r.streamHandler.StreamAssessments)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics, r.mux)(handler)

	// CORS wraps everything so preflights never reach the mux
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
