package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupflow-app/groupflow/internal/domain/repositories"
)

// gormStore bundles the GORM repositories over one Postgres connection
type gormStore struct {
	db *gorm.DB
}

// NewStore creates the Postgres-backed repositories.Store
func NewStore(db *gorm.DB) repositories.Store {
	return &gormStore{db: db}
}

func (s *gormStore) Meetings() repositories.MeetingRepository { return &meetingRepository{db: s.db} }
func (s *gormStore) Activities() repositories.ActivityRepository {
	return &activityRepository{db: s.db}
}
func (s *gormStore) Submissions() repositories.SubmissionRepository {
	return &submissionRepository{db: s.db}
}
func (s *gormStore) Votes() repositories.VoteRepository { return &voteRepository{db: s.db} }
func (s *gormStore) Ledger() repositories.IdempotencyRepository {
	return &idempotencyRepository{db: s.db}
}

// Atomic runs fn inside one transaction holding the meeting's advisory lock.
// The lock is transaction-scoped, so it releases on commit or rollback. Two
// Atomic calls on the same meeting serialize; different meetings do not
// contend.
func (s *gormStore) Atomic(ctx context.Context, meetingID uuid.UUID, fn func(repositories.Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", meetingID.String()).Error; err != nil {
			return err
		}
		return fn(&gormStore{db: tx})
	})
	return translateError(err)
}

// translateError maps driver errors onto the repository sentinels so
// usecases stay driver-neutral.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) ||
		errors.Is(err, repositories.ErrDuplicate) ||
		errors.Is(err, repositories.ErrTransient) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "23505"):
		return repositories.ErrDuplicate
	// foreign_key_violation: the referenced row is missing, which the
	// usecases report as not-found rather than an internal failure
	case strings.Contains(msg, "23503"), strings.Contains(msg, "foreign key"):
		return repositories.ErrNotFound
	// serialization_failure, deadlock_detected, lock timeouts
	case strings.Contains(msg, "40001"),
		strings.Contains(msg, "40p01"),
		strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "lock timeout"):
		return repositories.ErrTransient
	}
	return err
}
