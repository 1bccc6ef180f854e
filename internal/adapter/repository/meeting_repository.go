package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
	"github.com/groupflow-app/groupflow/internal/domain/repositories"
)

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// Create creates a new meeting
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	return translateError(r.db.WithContext(ctx).Create(meeting).Error)
}

// FindByID retrieves a meeting by its ID
func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&meeting).Error

	if err != nil {
		return nil, translateError(err)
	}
	return &meeting, nil
}

// Update updates an existing meeting
func (r *meetingRepository) Update(ctx context.Context, meeting *entities.Meeting) error {
	return translateError(r.db.WithContext(ctx).Save(meeting).Error)
}

// BumpStateVersion advances the meeting's snapshot version
func (r *meetingRepository) BumpStateVersion(ctx context.Context, meetingID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", meetingID).
		UpdateColumn("state_version", gorm.Expr("state_version + 1"))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// AddFacilitator records a facilitator role on a meeting
func (r *meetingRepository) AddFacilitator(ctx context.Context, facilitator *entities.Facilitator) error {
	return translateError(r.db.WithContext(ctx).Create(facilitator).Error)
}

// IsFacilitator reports whether the user holds a facilitator role on the meeting
func (r *meetingRepository) IsFacilitator(ctx context.Context, meetingID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Facilitator{}).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// AddParticipant registers a participant on a meeting
func (r *meetingRepository) AddParticipant(ctx context.Context, participant *entities.Participant) error {
	return translateError(r.db.WithContext(ctx).Create(participant).Error)
}

// FindParticipant retrieves a participant by meeting and user
func (r *meetingRepository) FindParticipant(ctx context.Context, meetingID, userID uuid.UUID) (*entities.Participant, error) {
	var participant entities.Participant
	err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		First(&participant).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, translateError(err)
	}
	return &participant, nil
}
