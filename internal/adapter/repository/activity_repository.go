package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// activityRepository implements the ActivityRepository interface
type activityRepository struct {
	db *gorm.DB
}

// Create creates a new activity
func (r *activityRepository) Create(ctx context.Context, activity *entities.Activity) error {
	return translateError(r.db.WithContext(ctx).Create(activity).Error)
}

// FindByID retrieves an activity by its ID
func (r *activityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Activity, error) {
	var activity entities.Activity
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&activity).Error

	if err != nil {
		return nil, translateError(err)
	}
	return &activity, nil
}

// ListByMeeting returns the agenda ordered by position
func (r *activityRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.Activity, error) {
	var activities []*entities.Activity
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("position ASC").
		Find(&activities).Error
	if err != nil {
		return nil, translateError(err)
	}
	return activities, nil
}

// FindRunningByMeeting returns the single running activity of the meeting
func (r *activityRepository) FindRunningByMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Activity, error) {
	var activity entities.Activity
	err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND phase = ?", meetingID, entities.ActivityPhaseRunning).
		First(&activity).Error

	if err != nil {
		return nil, translateError(err)
	}
	return &activity, nil
}

// Update updates an existing activity
func (r *activityRepository) Update(ctx context.Context, activity *entities.Activity) error {
	return translateError(r.db.WithContext(ctx).Save(activity).Error)
}
