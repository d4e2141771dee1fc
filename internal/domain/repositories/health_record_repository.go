package repositories

import (
	"context"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
)

// HealthRecordRepository defines the interface for health record data operations
type HealthRecordRepository interface {
	// Create stores a submitted health record
	Create(ctx context.Context, record *entities.HealthRecord) error

	// GetByID retrieves a health record by ID
	GetByID(ctx context.Context, id string) (*entities.HealthRecord, error)
}
