package orchestration

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/groupflow-app/groupflow/internal/adapter/memory"
	"github.com/groupflow-app/groupflow/internal/domain/entities"
	usecaseErrors "github.com/groupflow-app/groupflow/internal/usecase/errors"
)

func newTestService(t *testing.T) (*OrchestrationService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewOrchestrationService(store, zap.NewNop()), store
}

func seedMeeting(t *testing.T, store *memory.Store) (*entities.Meeting, entities.CallerIdentity) {
	t.Helper()
	ctx := context.Background()

	facilitator := entities.CallerIdentity{UserID: uuid.New(), DisplayName: "Fay"}
	meeting := &entities.Meeting{
		ID:            uuid.New(),
		Title:         "Sprint planning",
		Status:        entities.MeetingStatusActive,
		FacilitatorID: facilitator.UserID,
	}
	require.NoError(t, store.Meetings().Create(ctx, meeting))
	require.NoError(t, store.Meetings().AddFacilitator(ctx, &entities.Facilitator{
		MeetingID: meeting.ID,
		UserID:    facilitator.UserID,
		Role:      entities.FacilitatorRolePrimary,
	}))
	return meeting, facilitator
}

func seedActivity(t *testing.T, store *memory.Store, meetingID uuid.UUID, phase entities.ActivityPhase) *entities.Activity {
	t.Helper()
	activity := &entities.Activity{
		ID:        uuid.New(),
		MeetingID: meetingID,
		ToolType:  entities.ToolTypeBrainstorming,
		Title:     "Ideas",
		Position:  1,
		Phase:     phase,
		Config:    datatypes.NewJSONType(entities.ActivityConfig{ShowResults: true}),
	}
	require.NoError(t, store.Activities().Create(context.Background(), activity))
	return activity
}

func TestStartTool_FromNotStarted(t *testing.T) {
	svc, store := newTestService(t)
	meeting, facilitator := seedMeeting(t, store)
	activity := seedActivity(t, store, meeting.ID, entities.ActivityPhaseNotStarted)
	ctx := context.Background()

	result, err := svc.StartTool(ctx, meeting.ID, activity.ID, facilitator)
	require.NoError(t, err)
	require.True(t, result.Accepted)
	require.False(t, result.WasAlreadyRunning)
	require.Equal(t, entities.ActivityPhaseRunning, result.Activity.Phase)

	stored, err := store.Meetings().FindByID(ctx, meeting.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentActivityID)
	require.Equal(t, activity.ID, *stored.CurrentActivityID)
	require.Equal(t, int64(1), stored.StateVersion)
}

func TestStartTool_AlreadyRunningIsIdempotent(t *testing.T) {
	svc, store := newTestService(t)
	meeting, facilitator := seedMeeting(t, store)
	activity := seedActivity(t, store, meeting.ID, entities.ActivityPhaseNotStarted)
	ctx := context.Background()

	_, err := svc.StartTool(ctx, meeting.ID, activity.ID, facilitator)
	require.NoError(t, err)

	result, err := svc.StartTool(ctx, meeting.ID, activity.ID, facilitator)
	require.NoError(t, err)
	require.True(t, result.Accepted)
	require.True(t, result.WasAlreadyRunning)

	// The repeat call must not bump the version.
	stored, err := store.Meetings().FindByID(ctx, meeting.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stored.StateVersion)
}

func TestStartTool_PausesOtherRunningActivity(t *testing.T) {
	svc, store := newTestService(t)
	meeting, facilitator := seedMeeting(t, store)
	first := seedActivity(t, store, meeting.ID, entities.ActivityPhaseNotStarted)
	second := seedActivity(t, store, meeting.ID, entities.ActivityPhaseNotStarted)
	ctx := context.Background()

	_, err := svc.StartTool(ctx, meeting.ID, first.ID, facilitator)
	require.NoError(t, err)
	_, err = svc.StartTool(ctx, meeting.ID, second.ID, facilitator)
	require.NoError(t, err)

	storedFirst, err := store.Activities().FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ActivityPhasePaused, storedFirst.Phase)

	storedSecond, err := store.Activities().FindByID(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ActivityPhaseRunning, storedSecond.Phase)
}

func TestStartTool_FromPausedIsIllegal(t *testing.T) {
	svc, store := newTestService(t)
	meeting, facilitator := seedMeeting(t, store)
	activity := seedActivity(t, store, meeting.ID, entities.ActivityPhasePaused)

	_, err := svc.StartTool(context.Background(), meeting.ID, activity.ID, facilitator)
	require.ErrorIs(t, err, usecaseErrors.ErrIllegalTransition)
}

func TestStartTool_ReopensClosedActivity(t *testing.T) {
	svc, store := newTestService(t)
	meeting, facilitator := seedMeeting(t, store)
	activity := seedActivity(t, store, meeting.ID, entities.ActivityPhaseClosed)

	result, err := svc.StartTool(context.Background(), meeting.ID, activity.ID, facilitator)
	require.NoError(t, err)
	require.Equal(t, entities.ActivityPhaseRunning, result.Activity.Phase)
	require.Nil(t, result.Activity.ClosedAt)
}

func TestStartTool_RequiresFacilitator(t *testing.T) {
	svc, store := newTestService(t)
	meeting, _ := seedMeeting(t, store)
	activity := seedActivity(t, store, meeting.ID, entities.ActivityPhaseNotStarted)

	stranger := entities.CallerIdentity{UserID: uuid.New(), DisplayName: "Sam"}
	_, err := svc.StartTool(context.Background(), meeting.ID, activity.ID, stranger)
	require.ErrorIs(t, err, usecaseErrors.ErrNotFacilitator)
}

func TestStartTool_UnknownActivity(t *testing.T) {
	svc, store := newTestService(t)
	meeting, facilitator := seedMeeting(t, store)

	_, err := svc.StartTool(context.Background(), meeting.ID, uuid.New(), facilitator)
	require.ErrorIs(t, err, usecaseErrors.ErrActivityNotFound)
}

func TestStartTool_ActivityOfAnotherMeeting(t *testing.T) {
	svc, store := newTestService(t)
	meeting, facilitator := seedMeeting(t, store)
	other, _ := seedMeeting(t, store)
	foreign := seedActivity(t, store, other.ID, entities.ActivityPhaseNotStarted)

	_, err := svc.StartTool(context.Background(), meeting.ID, foreign.ID, facilitator)
	require.ErrorIs(t, err, usecaseErrors.ErrActivityNotFound)
}

func TestPauseTool_Transitions(t *testing.T) {
	svc, store := newTestService(t)
	meeting, facilitator := seedMeeting(t, store)
	ctx := context.Background()

	running := seedActivity(t, store, meeting.ID, entities.ActivityPhaseRunning)
	paused, err := svc.PauseTool(ctx, meeting.ID, running.ID, facilitator)
	require.NoError(t, err)
	require.Equal(t, entities.ActivityPhasePaused, paused.Phase)

	// Pausing again is a no-op success.
	again, err := svc.PauseTool(ctx, meeting.ID, running.ID, facilitator)
	require.NoError(t, err)
	require.Equal(t, entities.ActivityPhasePaused, again.Phase)

	fresh := seedActivity(t, store, meeting.ID, entities.ActivityPhaseNotStarted)
	_, err = svc.PauseTool(ctx, meeting.ID, fresh.ID, facilitator)
	require.ErrorIs(t, err, usecaseErrors.ErrIllegalTransition)
}

func TestResumeTool_Transitions(t *testing.T) {
	svc, store := newTestService(t)
	meeting, facilitator := seedMeeting(t, store)
	ctx := context.Background()

	paused := seedActivity(t, store, meeting.ID, entities.ActivityPhasePaused)
	resumed, err := svc.ResumeTool(ctx, meeting.ID, paused.ID, facilitator)
	require.NoError(t, err)
	require.Equal(t, entities.ActivityPhaseRunning, resumed.Phase)

	// Resuming a running activity is a no-op success.
	again, err := svc.ResumeTool(ctx, meeting.ID, paused.ID, facilitator)
	require.NoError(t, err)
	require.Equal(t, entities.ActivityPhaseRunning, again.Phase)

	closed := seedActivity(t, store, meeting.ID, entities.ActivityPhaseClosed)
	_, err = svc.ResumeTool(ctx, meeting.ID, closed.ID, facilitator)
	require.ErrorIs(t, err, usecaseErrors.ErrIllegalTransition)
}

func TestResumeTool_PausesOtherRunningActivity(t *testing.T) {
	svc, store := newTestService(t)
	meeting, facilitator := seedMeeting(t, store)
	ctx := context.Background()

	running := seedActivity(t, store, meeting.ID, entities.ActivityPhaseRunning)
	paused := seedActivity(t, store, meeting.ID, entities.ActivityPhasePaused)

	_, err := svc.ResumeTool(ctx, meeting.ID, paused.ID, facilitator)
	require.NoError(t, err)

	storedRunning, err := store.Activities().FindByID(ctx, running.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ActivityPhasePaused, storedRunning.Phase)
}

func TestCloseTool_Transitions(t *testing.T) {
	svc, store := newTestService(t)
	meeting, facilitator := seedMeeting(t, store)
	ctx := context.Background()

	activity := seedActivity(t, store, meeting.ID, entities.ActivityPhaseNotStarted)
	_, err := svc.StartTool(ctx, meeting.ID, activity.ID, facilitator)
	require.NoError(t, err)

	closed, err := svc.CloseTool(ctx, meeting.ID, activity.ID, facilitator)
	require.NoError(t, err)
	require.Equal(t, entities.ActivityPhaseClosed, closed.Phase)
	require.NotNil(t, closed.ClosedAt)

	// Closing clears the current activity pointer.
	stored, err := store.Meetings().FindByID(ctx, meeting.ID)
	require.NoError(t, err)
	require.Nil(t, stored.CurrentActivityID)

	// Closing again is a no-op success.
	_, err = svc.CloseTool(ctx, meeting.ID, activity.ID, facilitator)
	require.NoError(t, err)

	fresh := seedActivity(t, store, meeting.ID, entities.ActivityPhaseNotStarted)
	_, err = svc.CloseTool(ctx, meeting.ID, fresh.ID, facilitator)
	require.ErrorIs(t, err, usecaseErrors.ErrIllegalTransition)
}

func TestStartTool_ConcurrentStartsLeaveOneRunning(t *testing.T) {
	svc, store := newTestService(t)
	meeting, facilitator := seedMeeting(t, store)
	ctx := context.Background()

	activities := make([]*entities.Activity, 8)
	for i := range activities {
		activities[i] = seedActivity(t, store, meeting.ID, entities.ActivityPhaseNotStarted)
	}

	var wg sync.WaitGroup
	for _, a := range activities {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := svc.StartTool(ctx, meeting.ID, id, facilitator); err != nil {
				t.Errorf("start failed: %v", err)
			}
		}(a.ID)
	}
	wg.Wait()

	running := 0
	for _, a := range activities {
		stored, err := store.Activities().FindByID(ctx, a.ID)
		require.NoError(t, err)
		if stored.Phase == entities.ActivityPhaseRunning {
			running++
		}
	}
	require.Equal(t, 1, running, "exactly one activity may be running")
}
