package repositories

import (
	"context"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
)

// AssessmentRepository defines the interface for risk assessment data operations
type AssessmentRepository interface {
	// Create stores a computed assessment
	Create(ctx context.Context, assessment *entities.Assessment) error

	// GetByID retrieves an assessment by ID
	GetByID(ctx context.Context, id string) (*entities.Assessment, error)

	// ListByUser retrieves a user's assessments, newest first
	ListByUser(ctx context.Context, userID string, filter AssessmentFilter) ([]*entities.Assessment, error)
}

// Default and maximum page sizes for assessment history
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// AssessmentFilter defines paging for listing assessments
type AssessmentFilter struct {
	Limit  int
	Offset int
}

// Normalize clamps the filter to the supported page sizes
func (f AssessmentFilter) Normalize() AssessmentFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultHistoryLimit
	}
	if f.Limit > MaxHistoryLimit {
		f.Limit = MaxHistoryLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
