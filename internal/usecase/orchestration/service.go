package orchestration

import (
	"context"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// StartResult reports the outcome of a start_tool control action. The
// transport layer maps WasAlreadyRunning to its repeat-call status while both
// cases stay successful for the caller.
type StartResult struct {
	Accepted          bool
	WasAlreadyRunning bool
	Activity          *entities.Activity
}

// Service gates all activity phase transitions. It is the single source of
// truth for which activity currently accepts participant writes.
type Service interface {
	// StartTool moves an activity into running and pauses any other running
	// activity of the meeting. Starting an already-running activity is
	// idempotent.
	StartTool(ctx context.Context, meetingID, activityID uuid.UUID, caller entities.CallerIdentity) (*StartResult, error)

	// PauseTool suspends a running activity
	PauseTool(ctx context.Context, meetingID, activityID uuid.UUID, caller entities.CallerIdentity) (*entities.Activity, error)

	// ResumeTool moves a paused activity back to running, pausing any other
	// running activity of the meeting
	ResumeTool(ctx context.Context, meetingID, activityID uuid.UUID, caller entities.CallerIdentity) (*entities.Activity, error)

	// CloseTool moves an activity into its terminal phase
	CloseTool(ctx context.Context, meetingID, activityID uuid.UUID, caller entities.CallerIdentity) (*entities.Activity, error)
}

// Ensure OrchestrationService implements Service interface
var _ Service = (*OrchestrationService)(nil)
