package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	"github.com/paramveeRana/brainstroke3/internal/domain/providers"
	"github.com/paramveeRana/brainstroke3/internal/domain/repositories"
	"github.com/paramveeRana/brainstroke3/internal/domain/scoring"
	"github.com/paramveeRana/brainstroke3/internal/infrastructure/observability"
	apperrors "github.com/paramveeRana/brainstroke3/pkg/errors"
)

// AssessmentService validates health records, scores them and keeps the
// resulting assessment history
type AssessmentService struct {
	records     repositories.HealthRecordRepository
	assessments repositories.AssessmentRepository
	eventBus    providers.EventBus
	engine      *scoring.Engine
	metrics     *observability.Metrics
}

// NewAssessmentService creates a new assessment service. eventBus and
// metrics may be nil; a nil engine selects scoring.Default().
func NewAssessmentService(
	records repositories.HealthRecordRepository,
	assessments repositories.AssessmentRepository,
	eventBus providers.EventBus,
	engine *scoring.Engine,
	metrics *observability.Metrics,
) *AssessmentService {
	if engine == nil {
		engine = scoring.Default()
	}
	return &AssessmentService{
		records:     records,
		assessments: assessments,
		eventBus:    eventBus,
		engine:      engine,
		metrics:     metrics,
	}
}

// Engine returns the scoring engine the service uses
func (s *AssessmentService) Engine() *scoring.Engine {
	return s.engine
}

// Preview validates and scores a record without storing anything
func (s *AssessmentService) Preview(ctx context.Context, record entities.HealthRecord) (*scoring.AssessmentResult, error) {
	normalized, err := ValidateHealthRecord(record)
	if err != nil {
		return nil, err
	}

	result, err := s.score(ctx, normalized)
	if err != nil {
		return nil, err
	}

	observability.RecordAssessment(ctx, s.metrics, string(result.RiskLevel), result.RiskScore, false)
	return result, nil
}

// Assess validates a record, stores it, scores it and stores the assessment.
// A completed event is published once the assessment is stored.
func (s *AssessmentService) Assess(ctx context.Context, userID string, record entities.HealthRecord) (*entities.Assessment, error) {
	ctx, span := observability.StartSpan(ctx, "AssessmentService.Assess")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	normalized, err := ValidateHealthRecord(record)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	normalized.ID = uuid.NewString()
	normalized.UserID = userID
	normalized.CreatedAt = now

	if err := s.records.Create(ctx, &normalized); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	result, err := s.score(ctx, normalized)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	assessment := &entities.Assessment{
		ID:              uuid.NewString(),
		UserID:          userID,
		HealthRecordID:  normalized.ID,
		RiskScore:       result.RiskScore,
		RiskLevel:       result.RiskLevel,
		BMI:             result.BMI,
		Recommendations: result.Recommendations,
		TableVersion:    result.TableVersion,
		CreatedAt:       now,
	}

	if err := s.assessments.Create(ctx, assessment); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	observability.SetSpanAttributes(span, attribute.String("assessment.id", assessment.ID))
	observability.RecordAssessment(ctx, s.metrics, string(assessment.RiskLevel), assessment.RiskScore, true)
	s.publish(ctx, assessment)

	return assessment, nil
}

// Get retrieves a stored assessment. When userID is set, assessments owned
// by other users are reported as not found. Ids that are not UUIDs cannot
// name a stored assessment and are not found without a lookup.
func (s *AssessmentService) Get(ctx context.Context, userID, id string) (*entities.Assessment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("assessment id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("assessment with id %s not found", id))
	}

	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if userID != "" && assessment.UserID != userID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("assessment with id %s not found", id))
	}
	return assessment, nil
}

// AssessmentDetail pairs an assessment with the health record it scored
type AssessmentDetail struct {
	*entities.Assessment
	HealthRecord *entities.HealthRecord `json:"health_record"`
}

// Detail retrieves an assessment together with its submitted health record
func (s *AssessmentService) Detail(ctx context.Context, userID, id string) (*AssessmentDetail, error) {
	assessment, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	record, err := s.records.GetByID(ctx, assessment.HealthRecordID)
	if err != nil {
		return nil, err
	}

	return &AssessmentDetail{Assessment: assessment, HealthRecord: record}, nil
}

// History lists a user's assessments, newest first
func (s *AssessmentService) History(ctx context.Context, userID string, filter repositories.AssessmentFilter) ([]*entities.Assessment, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	return s.assessments.ListByUser(ctx, userID, filter.Normalize())
}

func (s *AssessmentService) score(ctx context.Context, record entities.HealthRecord) (*scoring.AssessmentResult, error) {
	_, span := observability.StartSpan(ctx, "scoring.Calculate")
	defer span.End()

	result, err := s.engine.Calculate(record)
	if err != nil {
		observability.RecordError(span, err)
		if errors.Is(err, scoring.ErrInvalidInput) {
			return nil, apperrors.WrapValidationError(err.Error(), err)
		}
		return nil, apperrors.NewInternalError("failed to calculate stroke risk", err)
	}

	observability.SetSpanAttributes(span,
		attribute.Int("risk.score", result.RiskScore),
		attribute.String("risk.level", string(result.RiskLevel)),
		attribute.String("risk.table_version", result.TableVersion),
	)
	return result, nil
}

func (s *AssessmentService) publish(ctx context.Context, assessment *entities.Assessment) {
	if s.eventBus == nil {
		return
	}

	event := &entities.AssessmentEvent{
		ID:           uuid.NewString(),
		Type:         entities.AssessmentEventCompleted,
		AssessmentID: assessment.ID,
		UserID:       assessment.UserID,
		RiskLevel:    assessment.RiskLevel,
		RiskScore:    assessment.RiskScore,
		Timestamp:    assessment.CreatedAt,
	}

	logger := observability.LoggerFromContext(ctx)
	for _, channel := range []string{providers.EventChannelAssessmentsCompleted, providers.GetUserChannel(assessment.UserID)} {
		if err := s.eventBus.Publish(ctx, channel, event); err != nil {
			// the assessment is already stored; subscribers catch up on TTL expiry
			logger.Warn().Err(err).Str("channel", channel).Str("assessment_id", assessment.ID).Msg("Failed to publish assessment event")
		}
	}
}

// ValidateHealthRecord checks every field against its accepted domain and
// returns the record with gender and smoking status in canonical form.
func ValidateHealthRecord(record entities.HealthRecord) (entities.HealthRecord, error) {
	var problems []string

	if record.Age < entities.MinAge || record.Age > entities.MaxAge {
		problems = append(problems, fmt.Sprintf("age must be between %d and %d", entities.MinAge, entities.MaxAge))
	}
	if !inRange(record.Height, entities.MaxHeight) {
		problems = append(problems, fmt.Sprintf("height must be greater than 0 and at most %g cm", entities.MaxHeight))
	}
	if !inRange(record.Weight, entities.MaxWeight) {
		problems = append(problems, fmt.Sprintf("weight must be greater than 0 and at most %g kg", entities.MaxWeight))
	}

	gender, ok := entities.ParseGender(string(record.Gender))
	if !ok {
		problems = append(problems, fmt.Sprintf("gender %q is not one of Male, Female, Other", record.Gender))
	}
	smoking, ok := entities.ParseSmokingStatus(string(record.SmokingStatus))
	if !ok {
		problems = append(problems, fmt.Sprintf("smoking_status %q is not one of Never Smoked, Casual Smoker, Advanced Smoker", record.SmokingStatus))
	}

	if len(problems) > 0 {
		return record, apperrors.NewValidationError(strings.Join(problems, "; "))
	}

	record.Gender = gender
	record.SmokingStatus = smoking
	return record, nil
}

func inRange(v, upper float64) bool {
	return !math.IsNaN(v) && v > 0 && v <= upper
}
