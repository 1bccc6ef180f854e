package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// submissionRepository implements the SubmissionRepository interface
type submissionRepository struct {
	db *gorm.DB
}

// Create persists a submission. The unique (activity_id, seq) index rejects
// any duplicate sequence assignment that slipped past the meeting lock.
func (r *submissionRepository) Create(ctx context.Context, submission *entities.Submission) error {
	return translateError(r.db.WithContext(ctx).Create(submission).Error)
}

// FindByID retrieves a submission by its ID
func (r *submissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Submission, error) {
	var submission entities.Submission
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&submission).Error

	if err != nil {
		return nil, translateError(err)
	}
	return &submission, nil
}

// ListByActivity returns the full current set ordered by sequence number
func (r *submissionRepository) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*entities.Submission, error) {
	var submissions []*entities.Submission
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("seq ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, translateError(err)
	}
	return submissions, nil
}

// CountByActivity counts the submissions of an activity
func (r *submissionRepository) CountByActivity(ctx context.Context, activityID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Submission{}).
		Where("activity_id = ?", activityID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}
