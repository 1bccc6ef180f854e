package meeting

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/groupflow-app/groupflow/internal/adapter/memory"
	"github.com/groupflow-app/groupflow/internal/domain/entities"
	usecaseErrors "github.com/groupflow-app/groupflow/internal/usecase/errors"
)

func newTestService(t *testing.T) (*MeetingService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewMeetingService(store, zap.NewNop()), store
}

func createMeeting(t *testing.T, svc *MeetingService) (*entities.Meeting, entities.CallerIdentity) {
	t.Helper()
	facilitator := entities.CallerIdentity{UserID: uuid.New(), DisplayName: "Fay"}
	m, err := svc.CreateMeeting(context.Background(), CreateMeetingInput{
		Title:  "Team sync",
		Caller: facilitator,
	})
	require.NoError(t, err)
	return m, facilitator
}

func votingConfig() entities.ActivityConfig {
	return entities.ActivityConfig{
		Options: []entities.VoteOption{
			{ID: "a", Label: "Option A"},
			{ID: "b", Label: "Option B"},
		},
		MaxVotes: 1,
	}
}

func TestCreateMeeting_RegistersFacilitatorAndParticipant(t *testing.T) {
	svc, store := newTestService(t)
	m, facilitator := createMeeting(t, svc)
	ctx := context.Background()

	require.Equal(t, facilitator.UserID, m.FacilitatorID)

	isFacilitator, err := store.Meetings().IsFacilitator(ctx, m.ID, facilitator.UserID)
	require.NoError(t, err)
	require.True(t, isFacilitator)

	p, err := store.Meetings().FindParticipant(ctx, m.ID, facilitator.UserID)
	require.NoError(t, err)
	require.Equal(t, facilitator.DisplayName, p.DisplayName)
}

func TestCreateMeeting_RejectsBlankTitle(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateMeeting(context.Background(), CreateMeetingInput{
		Title:  "   ",
		Caller: entities.CallerIdentity{UserID: uuid.New()},
	})
	require.ErrorIs(t, err, entities.ErrInvalidTitle)
}

func TestJoinMeeting_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	m, _ := createMeeting(t, svc)
	ctx := context.Background()

	guest := entities.CallerIdentity{UserID: uuid.New(), DisplayName: "Gil"}
	first, err := svc.JoinMeeting(ctx, m.ID, guest)
	require.NoError(t, err)

	second, err := svc.JoinMeeting(ctx, m.ID, guest)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestJoinMeeting_ArchivedMeetingRejected(t *testing.T) {
	svc, _ := newTestService(t)
	m, facilitator := createMeeting(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.ArchiveMeeting(ctx, m.ID, facilitator))

	guest := entities.CallerIdentity{UserID: uuid.New(), DisplayName: "Gil"}
	_, err := svc.JoinMeeting(ctx, m.ID, guest)
	require.ErrorIs(t, err, usecaseErrors.ErrMeetingArchived)
}

func TestAddCoFacilitator_PrimaryOnly(t *testing.T) {
	svc, _ := newTestService(t)
	m, facilitator := createMeeting(t, svc)
	ctx := context.Background()

	co := uuid.New()
	require.NoError(t, svc.AddCoFacilitator(ctx, m.ID, co, facilitator))

	// A co-facilitator may not manage the roster.
	coCaller := entities.CallerIdentity{UserID: co, DisplayName: "Co"}
	err := svc.AddCoFacilitator(ctx, m.ID, uuid.New(), coCaller)
	require.ErrorIs(t, err, usecaseErrors.ErrNotFacilitator)

	// Granting twice conflicts.
	err = svc.AddCoFacilitator(ctx, m.ID, co, facilitator)
	require.ErrorIs(t, err, usecaseErrors.ErrAlreadyFacilitator)
}

func TestAddActivity_AppendsPositions(t *testing.T) {
	svc, _ := newTestService(t)
	m, facilitator := createMeeting(t, svc)
	ctx := context.Background()

	first, err := svc.AddActivity(ctx, AddActivityInput{
		MeetingID: m.ID,
		ToolType:  entities.ToolTypeBrainstorming,
		Title:     "Ideas",
		Caller:    facilitator,
	})
	require.NoError(t, err)
	require.Equal(t, 1, first.Position)
	require.Equal(t, entities.ActivityPhaseNotStarted, first.Phase)

	second, err := svc.AddActivity(ctx, AddActivityInput{
		MeetingID: m.ID,
		ToolType:  entities.ToolTypeVoting,
		Title:     "Vote",
		Config:    votingConfig(),
		Caller:    facilitator,
	})
	require.NoError(t, err)
	require.Equal(t, 2, second.Position)

	agenda, err := svc.ListAgenda(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, agenda, 2)
	require.Equal(t, first.ID, agenda[0].ID)
	require.Equal(t, second.ID, agenda[1].ID)
}

func TestAddActivity_RequiresFacilitator(t *testing.T) {
	svc, _ := newTestService(t)
	m, _ := createMeeting(t, svc)

	stranger := entities.CallerIdentity{UserID: uuid.New(), DisplayName: "Sam"}
	_, err := svc.AddActivity(context.Background(), AddActivityInput{
		MeetingID: m.ID,
		ToolType:  entities.ToolTypeBrainstorming,
		Title:     "Ideas",
		Caller:    stranger,
	})
	require.ErrorIs(t, err, usecaseErrors.ErrNotFacilitator)
}

func TestAddActivity_VotingConfigValidation(t *testing.T) {
	svc, _ := newTestService(t)
	m, facilitator := createMeeting(t, svc)
	ctx := context.Background()

	cases := []struct {
		name   string
		config entities.ActivityConfig
		want   error
	}{
		{
			name: "too few options",
			config: entities.ActivityConfig{
				Options:  []entities.VoteOption{{ID: "a", Label: "A"}},
				MaxVotes: 1,
			},
			want: entities.ErrMissingVoteOptions,
		},
		{
			name: "zero max votes",
			config: entities.ActivityConfig{
				Options: []entities.VoteOption{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}},
			},
			want: entities.ErrInvalidMaxVotes,
		},
		{
			name: "duplicate option ids",
			config: entities.ActivityConfig{
				Options:  []entities.VoteOption{{ID: "a", Label: "A"}, {ID: "a", Label: "A again"}},
				MaxVotes: 1,
			},
			want: entities.ErrInvalidOption,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddActivity(ctx, AddActivityInput{
				MeetingID: m.ID,
				ToolType:  entities.ToolTypeVoting,
				Title:     "Vote",
				Config:    tc.config,
				Caller:    facilitator,
			})
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAddActivity_UnknownToolType(t *testing.T) {
	svc, _ := newTestService(t)
	m, facilitator := createMeeting(t, svc)

	_, err := svc.AddActivity(context.Background(), AddActivityInput{
		MeetingID: m.ID,
		ToolType:  entities.ToolType("karaoke"),
		Title:     "Sing",
		Caller:    facilitator,
	})
	require.ErrorIs(t, err, entities.ErrInvalidToolType)
}

func TestUpdateActivitySettings_FullReplaceBeforeFirstSubmission(t *testing.T) {
	svc, _ := newTestService(t)
	m, facilitator := createMeeting(t, svc)
	ctx := context.Background()

	activity, err := svc.AddActivity(ctx, AddActivityInput{
		MeetingID: m.ID,
		ToolType:  entities.ToolTypeVoting,
		Title:     "Vote",
		Config:    votingConfig(),
		Caller:    facilitator,
	})
	require.NoError(t, err)

	next := votingConfig()
	next.MaxVotes = 3
	updated, err := svc.UpdateActivitySettings(ctx, UpdateSettingsInput{
		MeetingID:  m.ID,
		ActivityID: activity.ID,
		Config:     next,
		Caller:     facilitator,
	})
	require.NoError(t, err)
	require.Equal(t, 3, updated.Config.Data().MaxVotes)
}

func TestUpdateActivitySettings_LockedAfterFirstSubmission(t *testing.T) {
	svc, store := newTestService(t)
	m, facilitator := createMeeting(t, svc)
	ctx := context.Background()

	activity, err := svc.AddActivity(ctx, AddActivityInput{
		MeetingID: m.ID,
		ToolType:  entities.ToolTypeVoting,
		Title:     "Vote",
		Config:    votingConfig(),
		Caller:    facilitator,
	})
	require.NoError(t, err)

	// Simulate a committed submission; the sequence counter is the lock.
	activity.SubmissionSeq = 1
	require.NoError(t, store.Activities().Update(ctx, activity))

	// Structural change is rejected.
	next := votingConfig()
	next.MaxVotes = 5
	_, err = svc.UpdateActivitySettings(ctx, UpdateSettingsInput{
		MeetingID:  m.ID,
		ActivityID: activity.ID,
		Config:     next,
		Caller:     facilitator,
	})
	require.ErrorIs(t, err, entities.ErrConfigLocked)

	// show_results alone stays live-editable.
	reveal := votingConfig()
	reveal.ShowResults = true
	updated, err := svc.UpdateActivitySettings(ctx, UpdateSettingsInput{
		MeetingID:  m.ID,
		ActivityID: activity.ID,
		Config:     reveal,
		Caller:     facilitator,
	})
	require.NoError(t, err)
	require.True(t, updated.Config.Data().ShowResults)
	require.Equal(t, 1, updated.Config.Data().MaxVotes)
}

func TestUpdateActivitySettings_LockedAfterFirstVote(t *testing.T) {
	svc, store := newTestService(t)
	m, facilitator := createMeeting(t, svc)
	ctx := context.Background()

	activity, err := svc.AddActivity(ctx, AddActivityInput{
		MeetingID: m.ID,
		ToolType:  entities.ToolTypeVoting,
		Title:     "Vote",
		Config:    votingConfig(),
		Caller:    facilitator,
	})
	require.NoError(t, err)

	// A recorded vote locks the structure even though no submission exists.
	require.NoError(t, store.Votes().Create(ctx, &entities.Vote{
		ActivityID:    activity.ID,
		ParticipantID: uuid.New(),
		OptionID:      "a",
	}))

	// Replacing the option list or shrinking max_votes would strand the vote.
	next := entities.ActivityConfig{
		Options: []entities.VoteOption{
			{ID: "a", Label: "Option A"},
			{ID: "q", Label: "Option Q"},
		},
		MaxVotes: 1,
	}
	_, err = svc.UpdateActivitySettings(ctx, UpdateSettingsInput{
		MeetingID:  m.ID,
		ActivityID: activity.ID,
		Config:     next,
		Caller:     facilitator,
	})
	require.ErrorIs(t, err, entities.ErrConfigLocked)

	// show_results stays live-editable.
	reveal := votingConfig()
	reveal.ShowResults = true
	updated, err := svc.UpdateActivitySettings(ctx, UpdateSettingsInput{
		MeetingID:  m.ID,
		ActivityID: activity.ID,
		Config:     reveal,
		Caller:     facilitator,
	})
	require.NoError(t, err)
	require.True(t, updated.Config.Data().ShowResults)
	require.Len(t, updated.Config.Data().Options, 2)
	require.Equal(t, "b", updated.Config.Data().Options[1].ID)
}

func TestArchiveMeeting_RequiresFacilitator(t *testing.T) {
	svc, _ := newTestService(t)
	m, facilitator := createMeeting(t, svc)
	ctx := context.Background()

	stranger := entities.CallerIdentity{UserID: uuid.New(), DisplayName: "Sam"}
	require.ErrorIs(t, svc.ArchiveMeeting(ctx, m.ID, stranger), usecaseErrors.ErrNotFacilitator)

	require.NoError(t, svc.ArchiveMeeting(ctx, m.ID, facilitator))
	stored, err := svc.GetMeeting(ctx, m.ID)
	require.NoError(t, err)
	require.True(t, stored.IsArchived())

	// Archiving twice is a no-op success.
	require.NoError(t, svc.ArchiveMeeting(ctx, m.ID, facilitator))
}

func TestGetMeeting_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetMeeting(context.Background(), uuid.New())
	require.ErrorIs(t, err, usecaseErrors.ErrMeetingNotFound)
}
