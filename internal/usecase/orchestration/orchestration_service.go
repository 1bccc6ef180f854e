package orchestration

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

// OrchestrationService implements the activity state machine.
//
// Phases move not_started → running ⇄ paused → closed. start_tool is the only
// way into running from not_started or closed (closing is terminal for the
// activity's content, but a facilitator may re-open it); resume_tool covers
// paused → running. Every transition commits inside one Atomic block per
// meeting, which is what keeps the single-live-activity invariant: the block
// that starts B pauses A before either becomes visible.
type OrchestrationService struct {
	store  repositories.Store
	logger *zap.Logger
}

// NewOrchestrationService creates a new orchestration service
func NewOrchestrationService(store repositories.Store, logger *zap.Logger) *OrchestrationService {
	return &OrchestrationService{
		store:  store,
		logger: logger,
	}
}

// StartTool moves an activity into running
func (s *OrchestrationService) StartTool(ctx context.Context, meetingID, activityID uuid.UUID, caller entities.CallerIdentity) (*StartResult, error) {
	if err := s.requireFacilitator(ctx, meetingID, caller); err != nil {
		return nil, err
	}

	result := &StartResult{}
	err := s.store.Atomic(ctx, meetingID, func(tx repositories.Store) error {
		activity, err := s.findActivity(ctx, tx, meetingID, activityID)
		if err != nil {
			return err
		}

		switch activity.Phase {
		case entities.ActivityPhaseRunning:
			// Duplicate control call; accepted, nothing to do.
			result.Accepted = true
			result.WasAlreadyRunning = true
			result.Activity = activity
			return nil
		case entities.ActivityPhaseNotStarted, entities.ActivityPhaseClosed:
			// Allowed entry points for start_tool.
		default:
			return usecaseErrors.ErrIllegalTransition
		}

		if err := s.pauseRunning(ctx, tx, meetingID, activityID); err != nil {
			return err
		}

		activity.Start()
		if err := tx.Activities().Update(ctx, activity); err != nil {
			return fmt.Errorf("failed to start activity: %w", err)
		}
		if err := s.setCurrentActivity(ctx, tx, meetingID, &activityID); err != nil {
			return err
		}

		result.Accepted = true
		result.Activity = activity
		return tx.Meetings().BumpStateVersion(ctx, meetingID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("orchestration.tool_started",
		zap.String("meeting_id", meetingID.String()),
		zap.String("activity_id", activityID.String()),
		zap.Bool("was_already_running", result.WasAlreadyRunning),
	)

	return result, nil
}

// PauseTool suspends a running activity. Pausing an already-paused activity
// is a no-op success, mirroring the idempotent start semantics.
func (s *OrchestrationService) PauseTool(ctx context.Context, meetingID, activityID uuid.UUID, caller entities.CallerIdentity) (*entities.Activity, error) {
	if err := s.requireFacilitator(ctx, meetingID, caller); err != nil {
		return nil, err
	}

	var activity *entities.Activity
	err := s.store.Atomic(ctx, meetingID, func(tx repositories.Store) error {
		var err error
		activity, err = s.findActivity(ctx, tx, meetingID, activityID)
		if err != nil {
			return err
		}

		switch activity.Phase {
		case entities.ActivityPhasePaused:
			return nil
		case entities.ActivityPhaseRunning:
		default:
			return usecaseErrors.ErrIllegalTransition
		}

		activity.Pause()
		if err := tx.Activities().Update(ctx, activity); err != nil {
			return fmt.Errorf("failed to pause activity: %w", err)
		}
		return tx.Meetings().BumpStateVersion(ctx, meetingID)
	})
	if err != nil {
		return nil, err
	}

	return activity, nil
}

// ResumeTool moves a paused activity back to running
func (s *OrchestrationService) ResumeTool(ctx context.Context, meetingID, activityID uuid.UUID, caller entities.CallerIdentity) (*entities.Activity, error) {
	if err := s.requireFacilitator(ctx, meetingID, caller); err != nil {
		return nil, err
	}

	var activity *entities.Activity
	err := s.store.Atomic(ctx, meetingID, func(tx repositories.Store) error {
		var err error
		activity, err = s.findActivity(ctx, tx, meetingID, activityID)
		if err != nil {
			return err
		}

		switch activity.Phase {
		case entities.ActivityPhaseRunning:
			return nil
		case entities.ActivityPhasePaused:
		default:
			return usecaseErrors.ErrIllegalTransition
		}

		if err := s.pauseRunning(ctx, tx, meetingID, activityID); err != nil {
			return err
		}

		activity.Start()
		if err := tx.Activities().Update(ctx, activity); err != nil {
			return fmt.Errorf("failed to resume activity: %w", err)
		}
		if err := s.setCurrentActivity(ctx, tx, meetingID, &activityID); err != nil {
			return err
		}
		return tx.Meetings().BumpStateVersion(ctx, meetingID)
	})
	if err != nil {
		return nil, err
	}

	return activity, nil
}

// CloseTool moves an activity into its terminal phase
func (s *OrchestrationService) CloseTool(ctx context.Context, meetingID, activityID uuid.UUID, caller entities.CallerIdentity) (*entities.Activity, error) {
	if err := s.requireFacilitator(ctx, meetingID, caller); err != nil {
		return nil, err
	}

	var activity *entities.Activity
	err := s.store.Atomic(ctx, meetingID, func(tx repositories.Store) error {
		var err error
		activity, err = s.findActivity(ctx, tx, meetingID, activityID)
		if err != nil {
			return err
		}

		switch activity.Phase {
		case entities.ActivityPhaseClosed:
			return nil
		case entities.ActivityPhaseRunning, entities.ActivityPhasePaused:
		default:
			return usecaseErrors.ErrIllegalTransition
		}

		activity.Close()
		if err := tx.Activities().Update(ctx, activity); err != nil {
			return fmt.Errorf("failed to close activity: %w", err)
		}

		meeting, err := tx.Meetings().FindByID(ctx, meetingID)
		if err != nil {
			return err
		}
		if meeting.CurrentActivityID != nil && *meeting.CurrentActivityID == activityID {
			if err := s.setCurrentActivity(ctx, tx, meetingID, nil); err != nil {
				return err
			}
		}
		return tx.Meetings().BumpStateVersion(ctx, meetingID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("orchestration.tool_closed",
		zap.String("meeting_id", meetingID.String()),
		zap.String("activity_id", activityID.String()),
	)

	return activity, nil
}

// pauseRunning pauses whichever activity of the meeting is running, except
// the one being started.
func (s *OrchestrationService) pauseRunning(ctx context.Context, tx repositories.Store, meetingID, exceptID uuid.UUID) error {
	running, err := tx.Activities().FindRunningByMeeting(ctx, meetingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find running activity: %w", err)
	}
	if running.ID == exceptID {
		return nil
	}

	running.Pause()
	if err := tx.Activities().Update(ctx, running); err != nil {
		return fmt.Errorf("failed to pause activity %s: %w", running.ID, err)
	}

	s.logger.Info("orchestration.tool_paused_implicitly",
		zap.String("meeting_id", meetingID.String()),
		zap.String("activity_id", running.ID.String()),
	)

	return nil
}

func (s *OrchestrationService) setCurrentActivity(ctx context.Context, tx repositories.Store, meetingID uuid.UUID, activityID *uuid.UUID) error {
	meeting, err := tx.Meetings().FindByID(ctx, meetingID)
	if err != nil {
		return err
	}
	meeting.CurrentActivityID = activityID
	return tx.Meetings().Update(ctx, meeting)
}

func (s *OrchestrationService) findActivity(ctx context.Context, tx repositories.Store, meetingID, activityID uuid.UUID) (*entities.Activity, error) {
	activity, err := tx.Activities().FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, usecaseErrors.ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if activity.MeetingID != meetingID {
		return nil, usecaseErrors.ErrActivityNotFound
	}
	return activity, nil
}

func (s *OrchestrationService) requireFacilitator(ctx context.Context, meetingID uuid.UUID, caller entities.CallerIdentity) error {
	if _, err := s.store.Meetings().FindByID(ctx, meetingID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return usecaseErrors.ErrMeetingNotFound
		}
		return fmt.Errorf("failed to get meeting: %w", err)
	}
	ok, err := s.store.Meetings().IsFacilitator(ctx, meetingID, caller.UserID)
	if err != nil {
		return fmt.Errorf("failed to check facilitator role: %w", err)
	}
	if !ok {
		return usecaseErrors.ErrNotFacilitator
	}
	return nil
}
