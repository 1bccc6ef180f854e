package meeting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
	"github.com/groupflow-app/groupflow/internal/domain/repositories"
	usecaseErrors "github.com/groupflow-app/groupflow/internal/usecase/errors"
)

// MeetingService handles meeting lifecycle, roster and agenda management
type MeetingService struct {
	store  repositories.Store
	logger *zap.Logger
}

// NewMeetingService creates a new meeting service
func NewMeetingService(store repositories.Store, logger *zap.Logger) *MeetingService {
	return &MeetingService{
		store:  store,
		logger: logger,
	}
}

// CreateMeetingInput represents input for creating a meeting
type CreateMeetingInput struct {
	Title  string
	Caller entities.CallerIdentity
}

// CreateMeeting creates a new meeting with the caller as primary facilitator
func (s *MeetingService) CreateMeeting(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, entities.ErrInvalidTitle
	}

	meeting := &entities.Meeting{
		ID:            uuid.New(),
		Title:         input.Title,
		Status:        entities.MeetingStatusActive,
		FacilitatorID: input.Caller.UserID,
	}

	if err := s.store.Meetings().Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	facilitator := &entities.Facilitator{
		MeetingID: meeting.ID,
		UserID:    input.Caller.UserID,
		Role:      entities.FacilitatorRolePrimary,
	}
	if err := s.store.Meetings().AddFacilitator(ctx, facilitator); err != nil {
		return nil, fmt.Errorf("failed to add primary facilitator: %w", err)
	}

	participant := &entities.Participant{
		MeetingID:   meeting.ID,
		UserID:      input.Caller.UserID,
		DisplayName: input.Caller.DisplayName,
	}
	if err := s.store.Meetings().AddParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to register facilitator as participant: %w", err)
	}

	s.logger.Info("meeting.created",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("facilitator_id", input.Caller.UserID.String()),
	)

	return meeting, nil
}

// GetMeeting retrieves a meeting by ID
func (s *MeetingService) GetMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.store.Meetings().FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, usecaseErrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return meeting, nil
}

// JoinMeeting registers the caller as a participant. Joining twice is a
// no-op returning the existing registration.
func (s *MeetingService) JoinMeeting(ctx context.Context, meetingID uuid.UUID, caller entities.CallerIdentity) (*entities.Participant, error) {
	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.IsArchived() {
		return nil, usecaseErrors.ErrMeetingArchived
	}

	existing, err := s.store.Meetings().FindParticipant(ctx, meetingID, caller.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up participant: %w", err)
	}

	participant := &entities.Participant{
		MeetingID:   meetingID,
		UserID:      caller.UserID,
		DisplayName: caller.DisplayName,
	}
	if err := s.store.Meetings().AddParticipant(ctx, participant); err != nil {
		// A concurrent join won the insert; return the committed registration.
		if errors.Is(err, repositories.ErrDuplicate) {
			return s.store.Meetings().FindParticipant(ctx, meetingID, caller.UserID)
		}
		return nil, fmt.Errorf("failed to join meeting: %w", err)
	}

	return participant, nil
}

// AddCoFacilitator grants the co-facilitator role. Only the primary
// facilitator manages the facilitator roster.
func (s *MeetingService) AddCoFacilitator(ctx context.Context, meetingID, userID uuid.UUID, caller entities.CallerIdentity) error {
	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.FacilitatorID != caller.UserID {
		return usecaseErrors.ErrNotFacilitator
	}

	facilitator := &entities.Facilitator{
		MeetingID: meetingID,
		UserID:    userID,
		Role:      entities.FacilitatorRoleCo,
	}
	if err := s.store.Meetings().AddFacilitator(ctx, facilitator); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return usecaseErrors.ErrAlreadyFacilitator
		}
		return fmt.Errorf("failed to add co-facilitator: %w", err)
	}

	s.logger.Info("meeting.facilitator_added",
		zap.String("meeting_id", meetingID.String()),
		zap.String("user_id", userID.String()),
	)

	return nil
}

// AddActivityInput represents input for appending an agenda activity
type AddActivityInput struct {
	MeetingID uuid.UUID
	ToolType  entities.ToolType
	Title     string
	Config    entities.ActivityConfig
	Caller    entities.CallerIdentity
}

// AddActivity appends an activity to the agenda with the next position
func (s *MeetingService) AddActivity(ctx context.Context, input AddActivityInput) (*entities.Activity, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, entities.ErrInvalidTitle
	}
	if err := validateConfig(input.ToolType, input.Config); err != nil {
		return nil, err
	}

	if err := s.requireFacilitator(ctx, input.MeetingID, input.Caller); err != nil {
		return nil, err
	}

	var activity *entities.Activity
	err := s.store.Atomic(ctx, input.MeetingID, func(tx repositories.Store) error {
		agenda, err := tx.Activities().ListByMeeting(ctx, input.MeetingID)
		if err != nil {
			return fmt.Errorf("failed to list agenda: %w", err)
		}

		activity = &entities.Activity{
			ID:        uuid.New(),
			MeetingID: input.MeetingID,
			ToolType:  input.ToolType,
			Title:     input.Title,
			Position:  len(agenda) + 1,
			Phase:     entities.ActivityPhaseNotStarted,
			Config:    datatypes.NewJSONType(input.Config),
		}
		if err := tx.Activities().Create(ctx, activity); err != nil {
			return fmt.Errorf("failed to create activity: %w", err)
		}
		return tx.Meetings().BumpStateVersion(ctx, input.MeetingID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("meeting.activity_added",
		zap.String("meeting_id", input.MeetingID.String()),
		zap.String("activity_id", activity.ID.String()),
		zap.String("tool_type", string(activity.ToolType)),
	)

	return activity, nil
}

// UpdateSettingsInput represents input for updating an activity configuration
type UpdateSettingsInput struct {
	MeetingID  uuid.UUID
	ActivityID uuid.UUID
	Config     entities.ActivityConfig
	Caller     entities.CallerIdentity
}

// UpdateActivitySettings replaces the configuration, or just the live-editable
// show_results flag once the activity has received participant input.
func (s *MeetingService) UpdateActivitySettings(ctx context.Context, input UpdateSettingsInput) (*entities.Activity, error) {
	if err := s.requireFacilitator(ctx, input.MeetingID, input.Caller); err != nil {
		return nil, err
	}

	var activity *entities.Activity
	err := s.store.Atomic(ctx, input.MeetingID, func(tx repositories.Store) error {
		var err error
		activity, err = tx.Activities().FindByID(ctx, input.ActivityID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return usecaseErrors.ErrActivityNotFound
			}
			return fmt.Errorf("failed to get activity: %w", err)
		}
		if activity.MeetingID != input.MeetingID {
			return usecaseErrors.ErrActivityNotFound
		}

		locked := activity.ConfigLocked()
		if !locked && activity.AcceptsVotes() {
			// Votes reference option ids and count against max_votes, so a
			// cast vote locks the structure the same way a submission does.
			votes, err := tx.Votes().ListByActivity(ctx, input.ActivityID)
			if err != nil {
				return fmt.Errorf("failed to check recorded votes: %w", err)
			}
			locked = len(votes) > 0
		}

		if locked {
			current := activity.Config.Data()
			if !onlyShowResultsChanged(current, input.Config) {
				return entities.ErrConfigLocked
			}
			current.ShowResults = input.Config.ShowResults
			activity.Config = datatypes.NewJSONType(current)
		} else {
			if err := validateConfig(activity.ToolType, input.Config); err != nil {
				return err
			}
			activity.Config = datatypes.NewJSONType(input.Config)
		}

		if err := tx.Activities().Update(ctx, activity); err != nil {
			return fmt.Errorf("failed to update activity: %w", err)
		}
		return tx.Meetings().BumpStateVersion(ctx, input.MeetingID)
	})
	if err != nil {
		return nil, err
	}

	return activity, nil
}

// ListAgenda returns the meeting's activities ordered by position
func (s *MeetingService) ListAgenda(ctx context.Context, meetingID uuid.UUID) ([]*entities.Activity, error) {
	if _, err := s.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}
	agenda, err := s.store.Activities().ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agenda: %w", err)
	}
	return agenda, nil
}

// ArchiveMeeting soft-archives a meeting
func (s *MeetingService) ArchiveMeeting(ctx context.Context, meetingID uuid.UUID, caller entities.CallerIdentity) error {
	if err := s.requireFacilitator(ctx, meetingID, caller); err != nil {
		return err
	}

	return s.store.Atomic(ctx, meetingID, func(tx repositories.Store) error {
		meeting, err := tx.Meetings().FindByID(ctx, meetingID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return usecaseErrors.ErrMeetingNotFound
			}
			return err
		}
		if meeting.IsArchived() {
			return nil
		}
		meeting.Archive()
		if err := tx.Meetings().Update(ctx, meeting); err != nil {
			return fmt.Errorf("failed to archive meeting: %w", err)
		}
		return tx.Meetings().BumpStateVersion(ctx, meetingID)
	})
}

// requireFacilitator verifies the caller holds a facilitator role
func (s *MeetingService) requireFacilitator(ctx context.Context, meetingID uuid.UUID, caller entities.CallerIdentity) error {
	if _, err := s.GetMeeting(ctx, meetingID); err != nil {
		return err
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

// validateConfig checks the type-specific configuration invariants
func validateConfig(toolType entities.ToolType, config entities.ActivityConfig) error {
	switch toolType {
	case entities.ToolTypeVoting:
		if len(config.Options) < 2 {
			return entities.ErrMissingVoteOptions
		}
		if config.MaxVotes < 1 {
			return entities.ErrInvalidMaxVotes
		}
		seen := make(map[string]bool, len(config.Options))
		for _, opt := range config.Options {
			if opt.ID == "" || seen[opt.ID] {
				return entities.ErrInvalidOption
			}
			seen[opt.ID] = true
		}
	case entities.ToolTypeBrainstorming, entities.ToolTypeTransfer:
		// No structural constraints beyond the flags themselves.
	default:
		return entities.ErrInvalidToolType
	}
	return nil
}

// onlyShowResultsChanged reports whether new differs from current solely in
// the live-editable show_results flag.
func onlyShowResultsChanged(current, next entities.ActivityConfig) bool {
	next.ShowResults = current.ShowResults
	if len(current.Options) != len(next.Options) {
		return false
	}
	for i := range current.Options {
		if current.Options[i] != next.Options[i] {
			return false
		}
	}
	return current.MaxVotes == next.MaxVotes &&
		current.AllowSubcomments == next.AllowSubcomments &&
		current.AllowAnonymous == next.AllowAnonymous
}
