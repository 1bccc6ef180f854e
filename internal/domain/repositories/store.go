package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by any repository when the requested record does
// not exist. Adapters translate their driver-specific not-found errors into
// this sentinel so usecases stay driver-neutral.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write collides with an existing record
// under a uniqueness constraint (idempotency key, vote pair).
var ErrDuplicate = errors.New("duplicate record")

// ErrTransient is returned for retryable store failures such as lock
// contention or serialization conflicts.
var ErrTransient = errors.New("transient store error")

// Store bundles the repositories over one durable backend.
//
// Atomic runs fn against a store view whose writes commit together or not at
// all. The serialization scope is the given meeting: two Atomic calls for
// the same meeting never interleave, while calls for different meetings
// proceed independently. Reads outside Atomic observe only committed state.
type Store interface {
	Meetings() MeetingRepository
	Activities() ActivityRepository
	Submissions() SubmissionRepository
	Votes() VoteRepository
	Ledger() IdempotencyRepository

	Atomic(ctx context.Context, meetingID uuid.UUID, fn func(Store) error) error
}
