package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
	"github.com/groupflow-app/groupflow/internal/domain/repositories"
	usecaseErrors "github.com/groupflow-app/groupflow/internal/usecase/errors"
)

// commitRetries bounds the internal retry of the atomic commit step on
// transient store failures. Validation errors are never retried.
const commitRetries = 3

// SubmissionService implements the submission pipeline: ledger reservation,
// phase and parent validation, gapless sequence assignment and the atomic
// commit, in that order. The ledger may live in the durable store or in
// Redis; the protocol is the same either way.
type SubmissionService struct {
	store        repositories.Store
	ledger       repositories.IdempotencyRepository
	logger       *zap.Logger
	waitTimeout  time.Duration
	pollInterval time.Duration
}

// NewSubmissionService creates a new submission service. waitTimeout bounds
// how long a duplicate call waits for the winning call's outcome;
// pollInterval is the initial backoff between outcome polls.
func NewSubmissionService(
	store repositories.Store,
	ledger repositories.IdempotencyRepository,
	logger *zap.Logger,
	waitTimeout time.Duration,
	pollInterval time.Duration,
) *SubmissionService {
	return &SubmissionService{
		store:        store,
		ledger:       ledger,
		logger:       logger,
		waitTimeout:  waitTimeout,
		pollInterval: pollInterval,
	}
}

// Submit validates, deduplicates and commits one submission
func (s *SubmissionService) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, entities.ErrInvalidContent
	}
	if input.IdempotencyKey == "" {
		return nil, fmt.Errorf("%w: idempotency key is required", usecaseErrors.ErrInvalidInput)
	}

	record := &entities.IdempotencyRecord{
		ActivityID: input.ActivityID,
		Key:        input.IdempotencyKey,
	}
	won, existing, err := s.ledger.Reserve(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}

	if !won {
		return s.replayOutcome(ctx, input, existing)
	}

	result, err := s.commit(ctx, input)
	if err != nil {
		// Validation failed before any durable write. Free the key so a
		// corrected retry with the same key can win again.
		if releaseErr := s.ledger.Release(ctx, input.ActivityID, input.IdempotencyKey); releaseErr != nil {
			s.logger.Warn("submission.ledger_release_failed",
				zap.String("activity_id", input.ActivityID.String()),
				zap.Error(releaseErr),
			)
		}
		return nil, err
	}

	if err := s.ledger.Complete(ctx, input.ActivityID, input.IdempotencyKey, result.SubmissionID); err != nil {
		// The submission is committed; duplicates waiting on this key will
		// time out with a retryable error instead of seeing a duplicate.
		s.logger.Error("submission.ledger_complete_failed",
			zap.String("activity_id", input.ActivityID.String()),
			zap.String("submission_id", result.SubmissionID.String()),
			zap.Error(err),
		)
	}

	return result, nil
}

// replayOutcome returns the winner's recorded outcome, waiting for it when
// the winning call is still in flight.
func (s *SubmissionService) replayOutcome(ctx context.Context, input SubmitInput, existing *entities.IdempotencyRecord) (*SubmitResult, error) {
	record := existing
	if record == nil || !record.IsCompleted() {
		policy := backoff.NewExponentialBackOff()
		policy.InitialInterval = s.pollInterval
		policy.MaxElapsedTime = s.waitTimeout

		err := backoff.Retry(func() error {
			r, err := s.ledger.Get(ctx, input.ActivityID, input.IdempotencyKey)
			if err != nil {
				// Released by the winner after a validation failure; surface
				// a retryable error, the next attempt can win the key.
				if errors.Is(err, repositories.ErrNotFound) {
					return backoff.Permanent(usecaseErrors.ErrTransient)
				}
				return err
			}
			if !r.IsCompleted() {
				return fmt.Errorf("outcome pending")
			}
			record = r
			return nil
		}, backoff.WithContext(policy, ctx))
		if err != nil {
			if errors.Is(err, usecaseErrors.ErrTransient) {
				return nil, usecaseErrors.ErrTransient
			}
			return nil, usecaseErrors.ErrIdempotencyTimeout
		}
	}

	if record.SubmissionID == nil {
		return nil, usecaseErrors.ErrIdempotencyTimeout
	}

	committed, err := s.store.Submissions().FindByID(ctx, *record.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deduplicated submission: %w", err)
	}

	return &SubmitResult{
		SubmissionID: committed.ID,
		Seq:          committed.Seq,
		Replayed:     true,
	}, nil
}

// commit runs the validate-and-write step atomically, retrying transient
// store failures a bounded number of times.
func (s *SubmissionService) commit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	var result *SubmitResult

	operation := func() error {
		err := s.store.Atomic(ctx, input.MeetingID, func(tx repositories.Store) error {
			r, err := s.commitOnce(ctx, tx, input)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
		if err != nil && !errors.Is(err, repositories.ErrTransient) {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), commitRetries), ctx))
	if err != nil {
		if errors.Is(err, repositories.ErrTransient) {
			return nil, usecaseErrors.ErrTransient
		}
		return nil, err
	}

	return result, nil
}

func (s *SubmissionService) commitOnce(ctx context.Context, tx repositories.Store, input SubmitInput) (*SubmitResult, error) {
	activity, err := tx.Activities().FindByID(ctx, input.ActivityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, usecaseErrors.ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if activity.MeetingID != input.MeetingID {
		return nil, usecaseErrors.ErrActivityNotFound
	}

	if !activity.AcceptsSubmissions() {
		return nil, usecaseErrors.ErrWrongToolType
	}
	if !activity.IsRunning() {
		return nil, usecaseErrors.ErrActivityNotAccepting
	}

	config := activity.Config.Data()
	if input.Anonymous && !config.AllowAnonymous {
		return nil, fmt.Errorf("%w: activity does not allow anonymous submissions", usecaseErrors.ErrInvalidInput)
	}

	if input.ParentID != nil {
		if err := s.validateParent(ctx, tx, activity, *input.ParentID); err != nil {
			return nil, err
		}
	}

	seq := activity.SubmissionSeq + 1
	activity.SubmissionSeq = seq
	if err := tx.Activities().Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to assign sequence number: %w", err)
	}

	submission := &entities.Submission{
		ID:         uuid.New(),
		ActivityID: activity.ID,
		ParentID:   input.ParentID,
		Seq:        seq,
		Content:    input.Content,
	}
	if input.Anonymous {
		submission.AuthorName = entities.AnonymousAuthorName
	} else {
		authorID := input.Caller.UserID
		submission.AuthorID = &authorID
		submission.AuthorName = input.Caller.DisplayName
	}

	if err := tx.Submissions().Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to persist submission: %w", err)
	}
	if err := tx.Meetings().BumpStateVersion(ctx, input.MeetingID); err != nil {
		return nil, err
	}

	return &SubmitResult{
		SubmissionID: submission.ID,
		Seq:          seq,
	}, nil
}

// validateParent enforces the two-level thread rule: a reply's parent must
// be a top-level submission of the same activity.
func (s *SubmissionService) validateParent(ctx context.Context, tx repositories.Store, activity *entities.Activity, parentID uuid.UUID) error {
	if !activity.SupportsThreading() {
		return usecaseErrors.ErrInvalidParent
	}

	parent, err := tx.Submissions().FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return usecaseErrors.ErrInvalidParent
		}
		return fmt.Errorf("failed to look up parent: %w", err)
	}
	if parent.ActivityID != activity.ID || !parent.IsTopLevel() {
		return usecaseErrors.ErrInvalidParent
	}
	return nil
}

// ListSubmissions returns the activity's full current set ordered by seq
func (s *SubmissionService) ListSubmissions(ctx context.Context, meetingID, activityID uuid.UUID) ([]*entities.Submission, error) {
	activity, err := s.store.Activities().FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, usecaseErrors.ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if activity.MeetingID != meetingID {
		return nil, usecaseErrors.ErrActivityNotFound
	}

	submissions, err := s.store.Submissions().ListByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}
