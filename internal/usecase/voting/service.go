package voting

import (
	"context"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// VoteAction selects between adding and withdrawing a selection
type VoteAction string

const (
	VoteActionAdd    VoteAction = "add"
	VoteActionRemove VoteAction = "remove"
)

// CastVoteInput represents one add/remove request for a (caller, option) pair
type CastVoteInput struct {
	MeetingID  uuid.UUID
	ActivityID uuid.UUID
	OptionID   string
	Action     VoteAction
	Caller     entities.CallerIdentity
}

// CastVoteResult reports the option tally after the action committed
type CastVoteResult struct {
	OptionID   string
	TallyAfter int
	// Changed is false when the action was a no-op (re-adding a held
	// selection, removing an absent one).
	Changed bool
}

// Service maintains per-option tallies and per-participant selection sets.
// At every observation point a tally equals the number of distinct
// (participant, option) pairs currently recorded.
type Service interface {
	// CastVote applies one add/remove action under the quota rule
	CastVote(ctx context.Context, input CastVoteInput) (*CastVoteResult, error)

	// Tallies returns the live per-option counts without blocking writers
	Tallies(ctx context.Context, meetingID, activityID uuid.UUID) ([]entities.OptionTally, error)
}

// Ensure VotingService implements Service interface
var _ Service = (*VotingService)(nil)
