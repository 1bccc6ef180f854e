package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// IdempotencyRepository is the write-deduplication ledger. Exactly one
// concurrent caller wins the reservation for a given (activity, key); every
// other caller observes the winner's record.
type IdempotencyRepository interface {
	// Reserve attempts to claim (record.ActivityID, record.Key). On success
	// won is true and the pending record is persisted. When the key is
	// already claimed won is false and the existing record is returned.
	Reserve(ctx context.Context, record *entities.IdempotencyRecord) (won bool, existing *entities.IdempotencyRecord, err error)

	// Get returns the record for (activityID, key), or ErrNotFound.
	Get(ctx context.Context, activityID uuid.UUID, key string) (*entities.IdempotencyRecord, error)

	// Complete records the winning outcome for the reservation.
	Complete(ctx context.Context, activityID uuid.UUID, key string, submissionID uuid.UUID) error

	// Release abandons a pending reservation after a validation failure so a
	// corrected retry carrying the same key can win again.
	Release(ctx context.Context, activityID uuid.UUID, key string) error
}
