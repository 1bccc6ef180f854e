package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// SubmissionRepository defines the interface for submission persistence
type SubmissionRepository interface {
	Create(ctx context.Context, submission *entities.Submission) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Submission, error)

	// ListByActivity returns the full current set ordered by sequence number.
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*entities.Submission, error)

	CountByActivity(ctx context.Context, activityID uuid.UUID) (int64, error)
}
