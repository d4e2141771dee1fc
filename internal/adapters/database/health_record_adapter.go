package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	"github.com/paramveeRana/brainstroke3/internal/domain/repositories"
	"github.com/paramveeRana/brainstroke3/internal/infrastructure/clients/postgres"
	"github.com/paramveeRana/brainstroke3/internal/infrastructure/observability"
	apperrors "github.com/paramveeRana/brainstroke3/pkg/errors"
)

const healthRecordsTable = "health_records"

var healthRecordColumns = []interface{}{
	"id", "user_id", "age", "gender", "height", "weight",
	"hypertension", "heart_disease", "smoking_status", "created_at",
}

// HealthRecordAdapter implements the HealthRecordRepository interface
type HealthRecordAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewHealthRecordAdapter creates a new health record adapter. metrics may be nil.
func NewHealthRecordAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.HealthRecordRepository {
	return &HealthRecordAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

// Create inserts a health record
func (a *HealthRecordAdapter) Create(ctx context.Context, record *entities.HealthRecord) error {
	if record == nil {
		return apperrors.NewInternalError("health record is nil", errors.New("health record is nil"))
	}

	query, args, err := a.db.Insert(healthRecordsTable).Prepared(true).Rows(goqu.Record{
		"id":             record.ID,
		"user_id":        record.UserID,
		"age":            record.Age,
		"gender":         string(record.Gender),
		"height":         record.Height,
		"weight":         record.Weight,
		"hypertension":   record.Hypertension,
		"heart_disease":  record.HeartDisease,
		"smoking_status": string(record.SmokingStatus),
		"created_at":     record.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build health record insert query", err)
	}

	start := time.Now()
	_, err = a.client.DB().ExecContext(ctx, query, args...)
	observability.RecordDBMetric(ctx, a.metrics, "health_records.insert", time.Since(start))
	if err != nil {
		return writeError("failed to create health record", err)
	}

	return nil
}

// GetByID retrieves a health record by ID
func (a *HealthRecordAdapter) GetByID(ctx context.Context, id string) (*entities.HealthRecord, error) {
	query, args, err := a.db.Select(healthRecordColumns...).
		From(healthRecordsTable).
		Prepared(true).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	record := &entities.HealthRecord{}
	start := time.Now()
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&record.ID,
		&record.UserID,
		&record.Age,
		&record.Gender,
		&record.Height,
		&record.Weight,
		&record.Hypertension,
		&record.HeartDisease,
		&record.SmokingStatus,
		&record.CreatedAt,
	)
	observability.RecordDBMetric(ctx, a.metrics, "health_records.get", time.Since(start))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("health record with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get health record", err)
	}

	return record, nil
}
