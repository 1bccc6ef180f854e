package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting persistence
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	Update(ctx context.Context, meeting *entities.Meeting) error

	// BumpStateVersion advances the meeting's snapshot version. Called inside
	// every Atomic block that commits a state-affecting write.
	BumpStateVersion(ctx context.Context, meetingID uuid.UUID) error

	AddFacilitator(ctx context.Context, facilitator *entities.Facilitator) error
	IsFacilitator(ctx context.Context, meetingID, userID uuid.UUID) (bool, error)

	AddParticipant(ctx context.Context, participant *entities.Participant) error
	FindParticipant(ctx context.Context, meetingID, userID uuid.UUID) (*entities.Participant, error)
}
