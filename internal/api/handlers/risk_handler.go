package handlers

import (
	"context"
	"net/http"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	"github.com/paramveeRana/brainstroke3/internal/domain/scoring"
)

// RiskService defines the scoring operations used by the handler
type RiskService interface {
	Preview(ctx context.Context, record entities.HealthRecord) (*scoring.AssessmentResult, error)
	Engine() *scoring.Engine
}

// RiskHandler serves stateless risk calculations and the risk model itself
type RiskHandler struct {
	service RiskService
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(service RiskService) *RiskHandler {
	return &RiskHandler{service: service}
}

type riskFactorsResponse struct {
	TableVersion         string                        `json:"table_version"`
	NormalizationCeiling float64                       `json:"normalization_ceiling"`
	MaxRecommendations   int                           `json:"max_recommendations"`
	LevelThresholds      map[entities.RiskLevel]string `json:"level_thresholds"`
	RiskFactors          scoring.RiskFactorTable       `json:"risk_factors"`
	Recommendations      scoring.RecommendationCatalog `json:"recommendations"`
}

// Calculate handles POST /api/risk/calculate
func (h *RiskHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	record, err := decodeHealthRecord(w, r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.service.Preview(r.Context(), record)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Factors handles GET /api/risk/factors
func (h *RiskHandler) Factors(w http.ResponseWriter, r *http.Request) {
	engine := h.service.Engine()
	table := engine.Table()

	respondWithJSON(w, http.StatusOK, riskFactorsResponse{
		TableVersion:         table.Version,
		NormalizationCeiling: scoring.NormalizationCeiling,
		MaxRecommendations:   scoring.MaxRecommendations,
		LevelThresholds: map[entities.RiskLevel]string{
			entities.RiskLevelLow:      "score < 25",
			entities.RiskLevelModerate: "25 <= score < 50",
			entities.RiskLevelHigh:     "score >= 50",
		},
		RiskFactors:     table,
		Recommendations: engine.Catalog(),
	})
}
