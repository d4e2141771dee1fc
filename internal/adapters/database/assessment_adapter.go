package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	"github.com/paramveeRana/brainstroke3/internal/domain/repositories"
	"github.com/paramveeRana/brainstroke3/internal/infrastructure/clients/postgres"
	"github.com/paramveeRana/brainstroke3/internal/infrastructure/observability"
	apperrors "github.com/paramveeRana/brainstroke3/pkg/errors"
)

const assessmentsTable = "risk_assessments"

var assessmentColumns = []interface{}{
	"id", "user_id", "health_record_id", "risk_score", "risk_level",
	"bmi", "recommendations", "table_version", "created_at",
}

// AssessmentAdapter implements the AssessmentRepository interface
type AssessmentAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewAssessmentAdapter creates a new assessment adapter. metrics may be nil.
func NewAssessmentAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.AssessmentRepository {
	return &AssessmentAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

// Create inserts an assessment
func (a *AssessmentAdapter) Create(ctx context.Context, assessment *entities.Assessment) error {
	if assessment == nil {
		return apperrors.NewInternalError("assessment is nil", errors.New("assessment is nil"))
	}

	query, args, err := a.db.Insert(assessmentsTable).Prepared(true).Rows(goqu.Record{
		"id":               assessment.ID,
		"user_id":          assessment.UserID,
		"health_record_id": assessment.HealthRecordID,
		"risk_score":       assessment.RiskScore,
		"risk_level":       string(assessment.RiskLevel),
		"bmi":              assessment.BMI,
		"recommendations":  pq.StringArray(assessment.Recommendations),
		"table_version":    assessment.TableVersion,
		"created_at":       assessment.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build assessment insert query", err)
	}

	start := time.Now()
	_, err = a.client.DB().ExecContext(ctx, query, args...)
	observability.RecordDBMetric(ctx, a.metrics, "risk_assessments.insert", time.Since(start))
	if err != nil {
		return writeError("failed to create assessment", err)
	}

	return nil
}

// GetByID retrieves an assessment by ID
func (a *AssessmentAdapter) GetByID(ctx context.Context, id string) (*entities.Assessment, error) {
	query, args, err := a.db.Select(assessmentColumns...).
		From(assessmentsTable).
		Prepared(true).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	start := time.Now()
	assessment, err := scanAssessment(a.client.DB().QueryRowContext(ctx, query, args...))
	observability.RecordDBMetric(ctx, a.metrics, "risk_assessments.get", time.Since(start))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("assessment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get assessment", err)
	}

	return assessment, nil
}

// ListByUser retrieves a user's assessments, newest first
func (a *AssessmentAdapter) ListByUser(ctx context.Context, userID string, filter repositories.AssessmentFilter) ([]*entities.Assessment, error) {
	filter = filter.Normalize()

	ds := a.db.Select(assessmentColumns...).
		From(assessmentsTable).
		Prepared(true).
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(uint(filter.Limit))

	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	start := time.Now()
	defer func() {
		observability.RecordDBMetric(ctx, a.metrics, "risk_assessments.list", time.Since(start))
	}()

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list assessments", err)
	}
	defer rows.Close()

	assessments := make([]*entities.Assessment, 0, filter.Limit)
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan assessment", err)
		}
		assessments = append(assessments, assessment)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate assessments", err)
	}

	return assessments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row rowScanner) (*entities.Assessment, error) {
	assessment := &entities.Assessment{}
	var recommendations pq.StringArray

	err := row.Scan(
		&assessment.ID,
		&assessment.UserID,
		&assessment.HealthRecordID,
		&assessment.RiskScore,
		&assessment.RiskLevel,
		&assessment.BMI,
		&recommendations,
		&assessment.TableVersion,
		&assessment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	assessment.Recommendations = []string(recommendations)
	if assessment.Recommendations == nil {
		assessment.Recommendations = []string{}
	}
	return assessment, nil
}
