package meeting

import (
	"context"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// Service defines the interface for meeting management
type Service interface {
	// CreateMeeting creates a new meeting; the creator becomes primary facilitator
	CreateMeeting(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, error)

	// GetMeeting retrieves a meeting by ID
	GetMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error)

	// JoinMeeting registers the caller as a participant (idempotent)
	JoinMeeting(ctx context.Context, meetingID uuid.UUID, caller entities.CallerIdentity) (*entities.Participant, error)

	// AddCoFacilitator grants the facilitator role; primary facilitator only
	AddCoFacilitator(ctx context.Context, meetingID, userID uuid.UUID, caller entities.CallerIdentity) error

	// AddActivity appends an activity to the agenda; facilitator only
	AddActivity(ctx context.Context, input AddActivityInput) (*entities.Activity, error)

	// UpdateActivitySettings replaces the activity configuration. Once the
	// activity has received a submission only the live-editable show_results
	// flag may change.
	UpdateActivitySettings(ctx context.Context, input UpdateSettingsInput) (*entities.Activity, error)

	// ListAgenda returns the meeting's activities ordered by position
	ListAgenda(ctx context.Context, meetingID uuid.UUID) ([]*entities.Activity, error)

	// ArchiveMeeting soft-archives a meeting; facilitator only
	ArchiveMeeting(ctx context.Context, meetingID uuid.UUID, caller entities.CallerIdentity) error
}

// Ensure MeetingService implements Service interface
var _ Service = (*MeetingService)(nil)
