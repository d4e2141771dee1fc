package entities

import "time"

// RiskLevel is the coarse tier derived from the normalised risk score.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelModerate RiskLevel = "Moderate"
	RiskLevelHigh     RiskLevel = "High"
)

// IsValid checks if the level is one of the defined constants.
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow, RiskLevelModerate, RiskLevelHigh:
		return true
	}
	return false
}

// Assessment is a persisted scoring outcome for one health record.
type Assessment struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	HealthRecordID  string    `json:"health_record_id" db:"health_record_id"`
	RiskScore       int       `json:"risk_score" db:"risk_score"`
	RiskLevel       RiskLevel `json:"risk_level" db:"risk_level"`
	BMI             float64   `json:"bmi" db:"bmi"`
	Recommendations []string  `json:"recommendations" db:"recommendations"`
	TableVersion    string    `json:"table_version" db:"table_version"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// AssessmentEventType identifies what happened to an assessment
type AssessmentEventType string

const (
	AssessmentEventCompleted AssessmentEventType = "assessment.completed"
)

// AssessmentEvent is broadcast when an assessment has been stored
type AssessmentEvent struct {
	ID           string              `json:"id"`
	Type         AssessmentEventType `json:"type"`
	AssessmentID string              `json:"assessment_id"`
	UserID       string              `json:"user_id"`
	RiskLevel    RiskLevel           `json:"risk_level"`
	RiskScore    int                 `json:"risk_score"`
	Timestamp    time.Time           `json:"timestamp"`
}
