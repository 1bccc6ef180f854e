package submission

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/groupflow-app/groupflow/internal/adapter/memory"
	"github.com/groupflow-app/groupflow/internal/domain/entities"
	usecaseErrors "github.com/groupflow-app/groupflow/internal/usecase/errors"
)

func newTestService(t *testing.T) (*SubmissionService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewSubmissionService(store, store.Ledger(), zap.NewNop(), 2*time.Second, 5*time.Millisecond)
	return svc, store
}

func seedRunningActivity(t *testing.T, store *memory.Store, config entities.ActivityConfig) (*entities.Meeting, *entities.Activity, entities.CallerIdentity) {
	t.Helper()
	ctx := context.Background()

	caller := entities.CallerIdentity{UserID: uuid.New(), DisplayName: "Priya"}
	meeting := &entities.Meeting{
		ID:            uuid.New(),
		Title:         "Retro",
		Status:        entities.MeetingStatusActive,
		FacilitatorID: caller.UserID,
	}
	require.NoError(t, store.Meetings().Create(ctx, meeting))

	activity := &entities.Activity{
		ID:        uuid.New(),
		MeetingID: meeting.ID,
		ToolType:  entities.ToolTypeBrainstorming,
		Title:     "What went well?",
		Position:  1,
		Phase:     entities.ActivityPhaseRunning,
		Config:    datatypes.NewJSONType(config),
	}
	require.NoError(t, store.Activities().Create(ctx, activity))
	return meeting, activity, caller
}

func TestSubmit_CommitsWithSequence(t *testing.T) {
	svc, store := newTestService(t)
	meeting, activity, caller := seedRunningActivity(t, store, entities.ActivityConfig{})
	ctx := context.Background()

	result, err := svc.Submit(ctx, SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "key-1",
		Content:        "Ship smaller batches",
		Caller:         caller,
	})
	require.NoError(t, err)
	require.False(t, result.Replayed)
	require.Equal(t, int64(1), result.Seq)

	stored, err := store.Submissions().FindByID(ctx, result.SubmissionID)
	require.NoError(t, err)
	require.Equal(t, "Ship smaller batches", stored.Content)
	require.Equal(t, caller.DisplayName, stored.AuthorName)
	require.NotNil(t, stored.AuthorID)

	meetingAfter, err := store.Meetings().FindByID(ctx, meeting.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), meetingAfter.StateVersion)
}

func TestSubmit_DuplicateKeyReplaysOutcome(t *testing.T) {
	svc, store := newTestService(t)
	meeting, activity, caller := seedRunningActivity(t, store, entities.ActivityConfig{})
	ctx := context.Background()

	input := SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "retry-me",
		Content:        "Only once",
		Caller:         caller,
	}

	first, err := svc.Submit(ctx, input)
	require.NoError(t, err)
	second, err := svc.Submit(ctx, input)
	require.NoError(t, err)

	require.True(t, second.Replayed)
	require.Equal(t, first.SubmissionID, second.SubmissionID)
	require.Equal(t, first.Seq, second.Seq)

	list, err := store.Submissions().ListByActivity(ctx, activity.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestSubmit_ConcurrentDuplicatesConvergeOnOneSubmission(t *testing.T) {
	svc, store := newTestService(t)
	meeting, activity, caller := seedRunningActivity(t, store, entities.ActivityConfig{})
	ctx := context.Background()

	const callers = 20
	results := make([]*SubmitResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Submit(ctx, SubmitInput{
				MeetingID:      meeting.ID,
				ActivityID:     activity.ID,
				IdempotencyKey: "same-key",
				Content:        "one idea",
				Caller:         caller,
			})
		}(i)
	}
	wg.Wait()

	fresh := 0
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, results[0].SubmissionID, results[i].SubmissionID)
		require.Equal(t, int64(1), results[i].Seq)
		if !results[i].Replayed {
			fresh++
		}
	}
	require.Equal(t, 1, fresh, "exactly one call commits, the rest replay")

	list, err := store.Submissions().ListByActivity(ctx, activity.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestSubmit_ConcurrentDistinctKeysGetGaplessSequence(t *testing.T) {
	svc, store := newTestService(t)
	meeting, activity, caller := seedRunningActivity(t, store, entities.ActivityConfig{})
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Submit(ctx, SubmitInput{
				MeetingID:      meeting.ID,
				ActivityID:     activity.ID,
				IdempotencyKey: fmt.Sprintf("key-%d", i),
				Content:        fmt.Sprintf("idea %d", i),
				Caller:         caller,
			})
			if err != nil {
				t.Errorf("submit %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	list, err := store.Submissions().ListByActivity(ctx, activity.ID)
	require.NoError(t, err)
	require.Len(t, list, n)

	// ListByActivity orders by seq; the set must be exactly 1..n.
	for i, s := range list {
		require.Equal(t, int64(i+1), s.Seq)
	}
}

func TestSubmit_RejectsWhenNotRunning(t *testing.T) {
	svc, store := newTestService(t)
	meeting, activity, caller := seedRunningActivity(t, store, entities.ActivityConfig{})
	ctx := context.Background()

	for _, phase := range []entities.ActivityPhase{
		entities.ActivityPhaseNotStarted,
		entities.ActivityPhasePaused,
		entities.ActivityPhaseClosed,
	} {
		activity.Phase = phase
		require.NoError(t, store.Activities().Update(ctx, activity))

		_, err := svc.Submit(ctx, SubmitInput{
			MeetingID:      meeting.ID,
			ActivityID:     activity.ID,
			IdempotencyKey: "gate-" + string(phase),
			Content:        "late idea",
			Caller:         caller,
		})
		require.ErrorIs(t, err, usecaseErrors.ErrActivityNotAccepting, "phase %s", phase)
	}
}

func TestSubmit_FailedValidationFreesTheKey(t *testing.T) {
	svc, store := newTestService(t)
	meeting, activity, caller := seedRunningActivity(t, store, entities.ActivityConfig{})
	ctx := context.Background()

	activity.Phase = entities.ActivityPhasePaused
	require.NoError(t, store.Activities().Update(ctx, activity))

	input := SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "reusable",
		Content:        "idea",
		Caller:         caller,
	}
	_, err := svc.Submit(ctx, input)
	require.ErrorIs(t, err, usecaseErrors.ErrActivityNotAccepting)

	// The key was released, so a corrected retry wins it again.
	activity.Phase = entities.ActivityPhaseRunning
	require.NoError(t, store.Activities().Update(ctx, activity))

	result, err := svc.Submit(ctx, input)
	require.NoError(t, err)
	require.False(t, result.Replayed)
}

func TestSubmit_RejectsVotingActivity(t *testing.T) {
	svc, store := newTestService(t)
	meeting, activity, caller := seedRunningActivity(t, store, entities.ActivityConfig{})
	ctx := context.Background()

	activity.ToolType = entities.ToolTypeVoting
	require.NoError(t, store.Activities().Update(ctx, activity))

	_, err := svc.Submit(ctx, SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "k",
		Content:        "not content",
		Caller:         caller,
	})
	require.ErrorIs(t, err, usecaseErrors.ErrWrongToolType)
}

func TestSubmit_AnonymousGate(t *testing.T) {
	svc, store := newTestService(t)
	meeting, activity, caller := seedRunningActivity(t, store, entities.ActivityConfig{AllowAnonymous: true})
	ctx := context.Background()

	result, err := svc.Submit(ctx, SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "anon-1",
		Content:        "secret thought",
		Anonymous:      true,
		Caller:         caller,
	})
	require.NoError(t, err)

	stored, err := store.Submissions().FindByID(ctx, result.SubmissionID)
	require.NoError(t, err)
	require.Nil(t, stored.AuthorID)
	require.Equal(t, entities.AnonymousAuthorName, stored.AuthorName)

	// Disallowed when the activity config does not permit it.
	activity.Config = datatypes.NewJSONType(entities.ActivityConfig{AllowAnonymous: false})
	require.NoError(t, store.Activities().Update(ctx, activity))

	_, err = svc.Submit(ctx, SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "anon-2",
		Content:        "secret thought",
		Anonymous:      true,
		Caller:         caller,
	})
	require.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
}

func TestSubmit_TwoLevelThreading(t *testing.T) {
	svc, store := newTestService(t)
	meeting, activity, caller := seedRunningActivity(t, store, entities.ActivityConfig{AllowSubcomments: true})
	ctx := context.Background()

	top, err := svc.Submit(ctx, SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "top",
		Content:        "root idea",
		Caller:         caller,
	})
	require.NoError(t, err)

	reply, err := svc.Submit(ctx, SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "reply",
		Content:        "agreed",
		ParentID:       &top.SubmissionID,
		Caller:         caller,
	})
	require.NoError(t, err)

	// Replying to a reply breaks the two-level rule.
	_, err = svc.Submit(ctx, SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "reply-to-reply",
		Content:        "nope",
		ParentID:       &reply.SubmissionID,
		Caller:         caller,
	})
	require.ErrorIs(t, err, usecaseErrors.ErrInvalidParent)

	// Unknown parent is invalid too.
	missing := uuid.New()
	_, err = svc.Submit(ctx, SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "orphan",
		Content:        "nope",
		ParentID:       &missing,
		Caller:         caller,
	})
	require.ErrorIs(t, err, usecaseErrors.ErrInvalidParent)
}

func TestSubmit_ThreadingRequiresSubcommentsEnabled(t *testing.T) {
	svc, store := newTestService(t)
	meeting, activity, caller := seedRunningActivity(t, store, entities.ActivityConfig{AllowSubcomments: false})
	ctx := context.Background()

	top, err := svc.Submit(ctx, SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "top",
		Content:        "root idea",
		Caller:         caller,
	})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "reply",
		Content:        "agreed",
		ParentID:       &top.SubmissionID,
		Caller:         caller,
	})
	require.ErrorIs(t, err, usecaseErrors.ErrInvalidParent)
}

func TestSubmit_InputValidation(t *testing.T) {
	svc, store := newTestService(t)
	meeting, activity, caller := seedRunningActivity(t, store, entities.ActivityConfig{})
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{
		MeetingID:      meeting.ID,
		ActivityID:     activity.ID,
		IdempotencyKey: "k",
		Content:        "   ",
		Caller:         caller,
	})
	require.ErrorIs(t, err, entities.ErrInvalidContent)

	_, err = svc.Submit(ctx, SubmitInput{
		MeetingID:  meeting.ID,
		ActivityID: activity.ID,
		Content:    "idea",
		Caller:     caller,
	})
	require.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
}

func TestListSubmissions_OrderedBySeq(t *testing.T) {
	svc, store := newTestService(t)
	meeting, activity, caller := seedRunningActivity(t, store, entities.ActivityConfig{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Submit(ctx, SubmitInput{
			MeetingID:      meeting.ID,
			ActivityID:     activity.ID,
			IdempotencyKey: fmt.Sprintf("k-%d", i),
			Content:        fmt.Sprintf("idea %d", i),
			Caller:         caller,
		})
		require.NoError(t, err)
	}

	list, err := svc.ListSubmissions(ctx, meeting.ID, activity.ID)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, s := range list {
		require.Equal(t, int64(i+1), s.Seq)
	}
}
