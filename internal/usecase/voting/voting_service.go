package voting

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
	"github.com/groupflow-app/groupflow/internal/domain/repositories"
	usecaseErrors "github.com/groupflow-app/groupflow/internal/usecase/errors"
)

// VotingService implements the vote aggregator. The quota check and the vote
// write share one Atomic block per meeting so check-then-act cannot race;
// tally reads run outside any lock and observe only committed pairs.
type VotingService struct {
	store  repositories.Store
	logger *zap.Logger
}

// NewVotingService creates a new voting service
func NewVotingService(store repositories.Store, logger *zap.Logger) *VotingService {
	return &VotingService{
		store:  store,
		logger: logger,
	}
}

// CastVote applies one add/remove action under the quota rule
func (s *VotingService) CastVote(ctx context.Context, input CastVoteInput) (*CastVoteResult, error) {
	if input.Action != VoteActionAdd && input.Action != VoteActionRemove {
		return nil, fmt.Errorf("%w: unknown vote action %q", usecaseErrors.ErrInvalidInput, input.Action)
	}

	result := &CastVoteResult{OptionID: input.OptionID}
	err := s.store.Atomic(ctx, input.MeetingID, func(tx repositories.Store) error {
		activity, err := tx.Activities().FindByID(ctx, input.ActivityID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return usecaseErrors.ErrActivityNotFound
			}
			return fmt.Errorf("failed to get activity: %w", err)
		}
		if activity.MeetingID != input.MeetingID {
			return usecaseErrors.ErrActivityNotFound
		}
		if !activity.AcceptsVotes() {
			return usecaseErrors.ErrWrongToolType
		}
		if !activity.IsRunning() {
			return usecaseErrors.ErrActivityNotAccepting
		}

		config := activity.Config.Data()
		if !config.HasOption(input.OptionID) {
			return usecaseErrors.ErrUnknownOption
		}

		switch input.Action {
		case VoteActionAdd:
			if err := s.addVote(ctx, tx, input, config.MaxVotes, result); err != nil {
				return err
			}
		case VoteActionRemove:
			removed, err := tx.Votes().Delete(ctx, input.ActivityID, input.Caller.UserID, input.OptionID)
			if err != nil {
				return fmt.Errorf("failed to remove vote: %w", err)
			}
			result.Changed = removed
		}

		tally, err := s.countOption(ctx, tx, input.ActivityID, input.OptionID)
		if err != nil {
			return err
		}
		result.TallyAfter = tally

		if result.Changed {
			return tx.Meetings().BumpStateVersion(ctx, input.MeetingID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// addVote records the (participant, option) pair unless it already exists or
// the quota is spent on other options.
func (s *VotingService) addVote(ctx context.Context, tx repositories.Store, input CastVoteInput, maxVotes int, result *CastVoteResult) error {
	held, err := tx.Votes().Exists(ctx, input.ActivityID, input.Caller.UserID, input.OptionID)
	if err != nil {
		return fmt.Errorf("failed to check existing vote: %w", err)
	}
	if held {
		// Re-adding a held selection is a no-op, not a duplicate.
		return nil
	}

	selections, err := tx.Votes().ListByParticipant(ctx, input.ActivityID, input.Caller.UserID)
	if err != nil {
		return fmt.Errorf("failed to count selections: %w", err)
	}
	if maxVotes > 0 && len(selections) >= maxVotes {
		return usecaseErrors.ErrQuotaExceeded
	}

	vote := &entities.Vote{
		ActivityID:    input.ActivityID,
		ParticipantID: input.Caller.UserID,
		OptionID:      input.OptionID,
	}
	if err := tx.Votes().Create(ctx, vote); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("failed to record vote: %w", err)
	}
	result.Changed = true
	return nil
}

func (s *VotingService) countOption(ctx context.Context, tx repositories.Store, activityID uuid.UUID, optionID string) (int, error) {
	votes, err := tx.Votes().ListByActivity(ctx, activityID)
	if err != nil {
		return 0, fmt.Errorf("failed to list votes: %w", err)
	}
	count := 0
	for _, v := range votes {
		if v.OptionID == optionID {
			count++
		}
	}
	return count, nil
}

// Tallies returns the live per-option counts. The read runs against
// committed state only and never blocks voters.
func (s *VotingService) Tallies(ctx context.Context, meetingID, activityID uuid.UUID) ([]entities.OptionTally, error) {
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
	if !activity.AcceptsVotes() {
		return nil, usecaseErrors.ErrWrongToolType
	}

	votes, err := s.store.Votes().ListByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	counts := make(map[string]int)
	for _, v := range votes {
		counts[v.OptionID]++
	}

	config := activity.Config.Data()
	tallies := make([]entities.OptionTally, 0, len(config.Options))
	for _, opt := range config.Options {
		tallies = append(tallies, entities.OptionTally{
			OptionID: opt.ID,
			Label:    opt.Label,
			Count:    counts[opt.ID],
		})
	}
	return tallies, nil
}
