package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// ActivityRepository defines the interface for activity persistence
type ActivityRepository interface {
	Create(ctx context.Context, activity *entities.Activity) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Activity, error)

	// ListByMeeting returns the agenda ordered by position.
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.Activity, error)

	// FindRunningByMeeting returns the single running activity of the
	// meeting, or ErrNotFound when no activity is live.
	FindRunningByMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Activity, error)

	Update(ctx context.Context, activity *entities.Activity) error
}
