package handlers

import (
	"context"
	"net/http"

	"github.com/paramveeRana/brainstroke3/internal/application/services"
	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	"github.com/paramveeRana/brainstroke3/internal/domain/repositories"
)

// AssessmentService defines the assessment operations used by the handler
type AssessmentService interface {
	Assess(ctx context.Context, userID string, record entities.HealthRecord) (*entities.Assessment, error)
	Detail(ctx context.Context, userID, id string) (*services.AssessmentDetail, error)
	History(ctx context.Context, userID string, filter repositories.AssessmentFilter) ([]*entities.Assessment, error)
}

// AssessmentHandler handles stored assessment endpoints
type AssessmentHandler struct {
	service AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(service AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

type historyResponse struct {
	Assessments []*entities.Assessment `json:"assessments"`
	Count       int                    `json:"count"`
	Limit       int                    `json:"limit"`
	Offset      int                    `json:"offset"`
}

// CreateAssessment handles POST /api/assessments
func (h *AssessmentHandler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	record, err := decodeHealthRecord(w, r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	assessment, err := h.service.Assess(r.Context(), userID, record)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/assessments/"+assessment.ID)
	respondWithJSON(w, http.StatusCreated, assessment)
}

// ListAssessments handles GET /api/assessments
func (h *AssessmentHandler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	filter, err := parseAssessmentFilter(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	assessments, err := h.service.History(r.Context(), userID, filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if assessments == nil {
		assessments = []*entities.Assessment{}
	}

	respondWithJSON(w, http.StatusOK, historyResponse{
		Assessments: assessments,
		Count:       len(assessments),
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
}

// GetAssessment handles GET /api/assessments/{id}
func (h *AssessmentHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	detail, err := h.service.Detail(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}
