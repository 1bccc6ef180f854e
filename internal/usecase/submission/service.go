package submission

import (
	"context"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// SubmitInput carries one participant-authored unit of content. The
// idempotency key is caller-chosen and scoped to the activity; retries with
// the same key converge on the first outcome.
type SubmitInput struct {
	MeetingID      uuid.UUID
	ActivityID     uuid.UUID
	IdempotencyKey string
	Content        string
	ParentID       *uuid.UUID
	Anonymous      bool
	Caller         entities.CallerIdentity
}

// SubmitResult is the outcome of a submit call. Replayed marks an outcome
// served from the idempotency ledger rather than a fresh commit.
type SubmitResult struct {
	SubmissionID uuid.UUID
	Seq          int64
	Replayed     bool
}

// Service commits participant content exactly once against the currently
// running activity.
type Service interface {
	// Submit validates, deduplicates and commits one submission
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)

	// ListSubmissions returns the activity's full current set ordered by
	// sequence number
	ListSubmissions(ctx context.Context, meetingID, activityID uuid.UUID) ([]*entities.Submission, error)
}

// Ensure SubmissionService implements Service interface
var _ Service = (*SubmissionService)(nil)
