package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// voteRepository implements the VoteRepository interface
type voteRepository struct {
	db *gorm.DB
}

// Create records a (participant, option) pair. The unique index on
// (activity_id, participant_id, option_id) turns a racing duplicate into
// ErrDuplicate, which the aggregator treats as a no-op.
func (r *voteRepository) Create(ctx context.Context, vote *entities.Vote) error {
	return translateError(r.db.WithContext(ctx).Create(vote).Error)
}

// Delete removes a pair and reports whether a live vote was removed
func (r *voteRepository) Delete(ctx context.Context, activityID, participantID uuid.UUID, optionID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("activity_id = ? AND participant_id = ? AND option_id = ?", activityID, participantID, optionID).
		Delete(&entities.Vote{})
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Exists reports whether the pair is currently recorded
func (r *voteRepository) Exists(ctx context.Context, activityID, participantID uuid.UUID, optionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Vote{}).
		Where("activity_id = ? AND participant_id = ? AND option_id = ?", activityID, participantID, optionID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// ListByParticipant returns the participant's live selections in an activity
func (r *voteRepository) ListByParticipant(ctx context.Context, activityID, participantID uuid.UUID) ([]*entities.Vote, error) {
	var votes []*entities.Vote
	err := r.db.WithContext(ctx).
		Where("activity_id = ? AND participant_id = ?", activityID, participantID).
		Find(&votes).Error
	if err != nil {
		return nil, translateError(err)
	}
	return votes, nil
}

// ListByActivity returns all live votes of an activity
func (r *voteRepository) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*entities.Vote, error) {
	var votes []*entities.Vote
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Find(&votes).Error
	if err != nil {
		return nil, translateError(err)
	}
	return votes, nil
}
