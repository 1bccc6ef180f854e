package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
	"github.com/groupflow-app/groupflow/internal/domain/repositories"
)

// idempotencyRepository implements the IdempotencyRepository interface. The
// unique (activity_id, key) index is the winner election: of N concurrent
// inserts exactly one row lands, everyone else reads it back.
type idempotencyRepository struct {
	db *gorm.DB
}

// Reserve attempts to claim (record.ActivityID, record.Key)
func (r *idempotencyRepository) Reserve(ctx context.Context, record *entities.IdempotencyRecord) (bool, *entities.IdempotencyRecord, error) {
	record.Status = entities.IdempotencyStatusPending

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "activity_id"}, {Name: "key"}},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return false, nil, translateError(result.Error)
	}

	if result.RowsAffected > 0 {
		return true, nil, nil
	}

	existing, err := r.Get(ctx, record.ActivityID, record.Key)
	if err != nil {
		// The winner released between insert and read; the caller retries
		// the reservation.
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil, repositories.ErrTransient
		}
		return false, nil, err
	}
	return false, existing, nil
}

// Get returns the record for (activityID, key), or ErrNotFound
func (r *idempotencyRepository) Get(ctx context.Context, activityID uuid.UUID, key string) (*entities.IdempotencyRecord, error) {
	var record entities.IdempotencyRecord
	err := r.db.WithContext(ctx).
		Where("activity_id = ? AND key = ?", activityID, key).
		First(&record).Error

	if err != nil {
		return nil, translateError(err)
	}
	return &record, nil
}

// Complete records the winning outcome for the reservation
func (r *idempotencyRepository) Complete(ctx context.Context, activityID uuid.UUID, key string, submissionID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&entities.IdempotencyRecord{}).
		Where("activity_id = ? AND key = ?", activityID, key).
		Updates(map[string]interface{}{
			"status":        entities.IdempotencyStatusCompleted,
			"submission_id": submissionID,
			"completed_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Release abandons a pending reservation after a validation failure
func (r *idempotencyRepository) Release(ctx context.Context, activityID uuid.UUID, key string) error {
	return translateError(r.db.WithContext(ctx).
		Where("activity_id = ? AND key = ? AND status = ?", activityID, key, entities.IdempotencyStatusPending).
		Delete(&entities.IdempotencyRecord{}).Error)
}
