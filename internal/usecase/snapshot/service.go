package snapshot

import (
	"context"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// Snapshot is the payload a polling participant receives. Version is
// monotonic per meeting; a client that sees an unchanged version can skip
// re-rendering.
type Snapshot struct {
	MeetingID    uuid.UUID        `json:"meeting_id"`
	Title        string           `json:"title"`
	Version      int64            `json:"version"`
	AgendaTotal  int              `json:"agenda_total"`
	AgendaClosed int              `json:"agenda_closed"`
	Current      *CurrentActivity `json:"current,omitempty"`
}

// CurrentActivity summarizes the activity on stage
type CurrentActivity struct {
	ActivityID      uuid.UUID              `json:"activity_id"`
	ToolType        entities.ToolType      `json:"tool_type"`
	Title           string                 `json:"title"`
	Phase           entities.ActivityPhase `json:"phase"`
	SubmissionCount int64                  `json:"submission_count"`
	ShowResults     bool                   `json:"show_results"`
	VoteTallies     []entities.OptionTally `json:"vote_tallies,omitempty"`
}

// Service assembles the poll payload cheaply enough for every participant to
// request it every few seconds.
type Service interface {
	// MeetingState reflects every write committed before the call began
	MeetingState(ctx context.Context, meetingID uuid.UUID) (*Snapshot, error)
}

// Ensure SnapshotService implements Service interface
var _ Service = (*SnapshotService)(nil)
