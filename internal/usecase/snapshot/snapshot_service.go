package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
	"github.com/groupflow-app/groupflow/internal/domain/repositories"
	usecaseErrors "github.com/groupflow-app/groupflow/internal/usecase/errors"
)

// SnapshotService assembles meeting state from committed reads only; it
// holds no lock and adds no staleness of its own. The submission count rides
// on the activity's sequence counter, so no table scan per poll.
type SnapshotService struct {
	store repositories.Store
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(store repositories.Store) *SnapshotService {
	return &SnapshotService{store: store}
}

// MeetingState produces the poll payload for one meeting
func (s *SnapshotService) MeetingState(ctx context.Context, meetingID uuid.UUID) (*Snapshot, error) {
	meeting, err := s.store.Meetings().FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, usecaseErrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}

	agenda, err := s.store.Activities().ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agenda: %w", err)
	}

	snap := &Snapshot{
		MeetingID:   meeting.ID,
		Title:       meeting.Title,
		Version:     meeting.StateVersion,
		AgendaTotal: len(agenda),
	}
	for _, a := range agenda {
		if a.Phase == entities.ActivityPhaseClosed {
			snap.AgendaClosed++
		}
	}

	if meeting.CurrentActivityID == nil {
		return snap, nil
	}

	activity, err := s.store.Activities().FindByID(ctx, *meeting.CurrentActivityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return snap, nil
		}
		return nil, fmt.Errorf("failed to get current activity: %w", err)
	}

	config := activity.Config.Data()
	current := &CurrentActivity{
		ActivityID:      activity.ID,
		ToolType:        activity.ToolType,
		Title:           activity.Title,
		Phase:           activity.Phase,
		SubmissionCount: activity.SubmissionSeq,
		ShowResults:     config.ShowResults,
	}

	// Tallies appear once the facilitator reveals results or the activity
	// closed; before that participants only see that voting is underway.
	if activity.AcceptsVotes() && (config.ShowResults || activity.Phase == entities.ActivityPhaseClosed) {
		votes, err := s.store.Votes().ListByActivity(ctx, activity.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list votes: %w", err)
		}
		counts := make(map[string]int)
		for _, v := range votes {
			counts[v.OptionID]++
		}
		tallies := make([]entities.OptionTally, 0, len(config.Options))
		for _, opt := range config.Options {
			tallies = append(tallies, entities.OptionTally{
				OptionID: opt.ID,
				Label:    opt.Label,
				Count:    counts[opt.ID],
			})
		}
		current.VoteTallies = tallies
	}

	snap.Current = current
	return snap, nil
}
