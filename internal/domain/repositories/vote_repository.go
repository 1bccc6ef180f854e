package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// VoteRepository defines the interface for vote persistence
type VoteRepository interface {
	// Create records a (participant, option) pair. Returns ErrDuplicate when
	// the pair already exists.
	Create(ctx context.Context, vote *entities.Vote) error

	// Delete removes a pair. The returned bool reports whether a live vote
	// was actually removed.
	Delete(ctx context.Context, activityID, participantID uuid.UUID, optionID string) (bool, error)

	Exists(ctx context.Context, activityID, participantID uuid.UUID, optionID string) (bool, error)
	ListByParticipant(ctx context.Context, activityID, participantID uuid.UUID) ([]*entities.Vote, error)
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*entities.Vote, error)
}
