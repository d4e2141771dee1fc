package evaluation

import (
	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
)

// GoldenCase pins the expected scoring outcome for one health record.
type GoldenCase struct {
	ID            string                `json:"id"`
	Description   string                `json:"description,omitempty"`
	Record        entities.HealthRecord `json:"record"`
	ExpectedScore int                   `json:"expected_score"`
	ExpectedLevel entities.RiskLevel    `json:"expected_level"`
	ExpectedBMI   *float64              `json:"expected_bmi,omitempty"`
	MustInclude   []string              `json:"must_include,omitempty"`
}

// CaseResult is the outcome of scoring a single golden case.
type CaseResult struct {
	CaseID          string             `json:"case_id"`
	Passed          bool               `json:"passed"`
	ExpectedLevel   entities.RiskLevel `json:"expected_level"`
	ActualScore     int                `json:"actual_score"`
	ActualLevel     entities.RiskLevel `json:"actual_level"`
	ActualBMI       float64            `json:"actual_bmi"`
	ScoreError      int                `json:"score_error"`
	MissingRecs     []string           `json:"missing_recommendations,omitempty"`
	Coverage        float64            `json:"recommendation_coverage"`
	Failures        []string           `json:"failures,omitempty"`
	Error           string             `json:"error,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
}

// LevelSummary aggregates cases that expect the same risk level.
type LevelSummary struct {
	Count         int     `json:"count"`
	Passed        int     `json:"passed"`
	LevelAccuracy float64 `json:"level_accuracy"`
	ScoreMAE      float64 `json:"score_mae"`
}

// Summary aggregates a full evaluation run.
type Summary struct {
	TableVersion string                               `json:"table_version"`
	TotalCases   int                                  `json:"total_cases"`
	Passed       int                                  `json:"passed"`
	Failed       int                                  `json:"failed"`
	Errored      int                                  `json:"errored"`
	PassRate     float64                              `json:"pass_rate"`
	ScoreMAE     float64                              `json:"score_mae"`
	AvgCoverage  float64                              `json:"avg_recommendation_coverage"`
	ByLevel      map[entities.RiskLevel]*LevelSummary `json:"by_level"`
	Failures     []CaseResult                         `json:"failures,omitempty"`
}
