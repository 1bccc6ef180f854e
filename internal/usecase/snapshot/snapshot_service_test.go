package snapshot

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/groupflow-app/groupflow/internal/adapter/memory"
	"github.com/groupflow-app/groupflow/internal/domain/entities"
	usecaseErrors "github.com/groupflow-app/groupflow/internal/usecase/errors"
)

func seedMeeting(t *testing.T, store *memory.Store) *entities.Meeting {
	t.Helper()
	meeting := &entities.Meeting{
		ID:            uuid.New(),
		Title:         "All hands",
		Status:        entities.MeetingStatusActive,
		FacilitatorID: uuid.New(),
	}
	require.NoError(t, store.Meetings().Create(context.Background(), meeting))
	return meeting
}

func seedActivity(t *testing.T, store *memory.Store, meetingID uuid.UUID, toolType entities.ToolType, phase entities.ActivityPhase, config entities.ActivityConfig) *entities.Activity {
	t.Helper()
	activity := &entities.Activity{
		ID:        uuid.New(),
		MeetingID: meetingID,
		ToolType:  toolType,
		Title:     "Item",
		Position:  1,
		Phase:     phase,
		Config:    datatypes.NewJSONType(config),
	}
	require.NoError(t, store.Activities().Create(context.Background(), activity))
	return activity
}

func TestMeetingState_NoCurrentActivity(t *testing.T) {
	store := memory.NewStore()
	svc := NewSnapshotService(store)
	meeting := seedMeeting(t, store)
	seedActivity(t, store, meeting.ID, entities.ToolTypeBrainstorming, entities.ActivityPhaseClosed, entities.ActivityConfig{})
	seedActivity(t, store, meeting.ID, entities.ToolTypeBrainstorming, entities.ActivityPhaseNotStarted, entities.ActivityConfig{})

	snap, err := svc.MeetingState(context.Background(), meeting.ID)
	require.NoError(t, err)
	require.Equal(t, meeting.ID, snap.MeetingID)
	require.Equal(t, 2, snap.AgendaTotal)
	require.Equal(t, 1, snap.AgendaClosed)
	require.Nil(t, snap.Current)
}

func TestMeetingState_CurrentActivityPayload(t *testing.T) {
	store := memory.NewStore()
	svc := NewSnapshotService(store)
	meeting := seedMeeting(t, store)
	ctx := context.Background()

	activity := seedActivity(t, store, meeting.ID, entities.ToolTypeBrainstorming, entities.ActivityPhaseRunning, entities.ActivityConfig{ShowResults: true})
	activity.SubmissionSeq = 7
	require.NoError(t, store.Activities().Update(ctx, activity))

	meeting.CurrentActivityID = &activity.ID
	meeting.StateVersion = 12
	require.NoError(t, store.Meetings().Update(ctx, meeting))

	snap, err := svc.MeetingState(ctx, meeting.ID)
	require.NoError(t, err)
	require.Equal(t, int64(12), snap.Version)
	require.NotNil(t, snap.Current)
	require.Equal(t, activity.ID, snap.Current.ActivityID)
	require.Equal(t, entities.ActivityPhaseRunning, snap.Current.Phase)
	require.Equal(t, int64(7), snap.Current.SubmissionCount)
	require.Nil(t, snap.Current.VoteTallies)
}

func TestMeetingState_TallyVisibility(t *testing.T) {
	store := memory.NewStore()
	svc := NewSnapshotService(store)
	meeting := seedMeeting(t, store)
	ctx := context.Background()

	config := entities.ActivityConfig{
		Options:  []entities.VoteOption{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}},
		MaxVotes: 1,
	}
	activity := seedActivity(t, store, meeting.ID, entities.ToolTypeVoting, entities.ActivityPhaseRunning, config)
	meeting.CurrentActivityID = &activity.ID
	require.NoError(t, store.Meetings().Update(ctx, meeting))

	require.NoError(t, store.Votes().Create(ctx, &entities.Vote{
		ActivityID:    activity.ID,
		ParticipantID: uuid.New(),
		OptionID:      "a",
	}))

	// Hidden while running with show_results off.
	snap, err := svc.MeetingState(ctx, meeting.ID)
	require.NoError(t, err)
	require.Nil(t, snap.Current.VoteTallies)

	// Revealed once the facilitator flips show_results.
	config.ShowResults = true
	activity.Config = datatypes.NewJSONType(config)
	require.NoError(t, store.Activities().Update(ctx, activity))

	snap, err = svc.MeetingState(ctx, meeting.ID)
	require.NoError(t, err)
	require.Len(t, snap.Current.VoteTallies, 2)
	require.Equal(t, 1, snap.Current.VoteTallies[0].Count)

	// Also revealed after close even with show_results off.
	config.ShowResults = false
	activity.Config = datatypes.NewJSONType(config)
	activity.Phase = entities.ActivityPhasePaused
	require.NoError(t, store.Activities().Update(ctx, activity))

	snap, err = svc.MeetingState(ctx, meeting.ID)
	require.NoError(t, err)
	require.Nil(t, snap.Current.VoteTallies)

	activity.Phase = entities.ActivityPhaseClosed
	require.NoError(t, store.Activities().Update(ctx, activity))

	snap, err = svc.MeetingState(ctx, meeting.ID)
	require.NoError(t, err)
	require.Len(t, snap.Current.VoteTallies, 2)
}

func TestMeetingState_UnknownMeeting(t *testing.T) {
	svc := NewSnapshotService(memory.NewStore())
	_, err := svc.MeetingState(context.Background(), uuid.New())
	require.ErrorIs(t, err, usecaseErrors.ErrMeetingNotFound)
}
