package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/groupflow-app/groupflow/errors"
	meetingDTO "github.com/groupflow-app/groupflow/internal/adapter/dto/meeting"
	"github.com/groupflow-app/groupflow/internal/adapter/presenter"
	"github.com/groupflow-app/groupflow/internal/domain/entities"
	meetingUsecase "github.com/groupflow-app/groupflow/internal/usecase/meeting"
	"github.com/groupflow-app/groupflow/internal/usecase/snapshot"
)

// Meeting handles meeting lifecycle and agenda HTTP requests
type Meeting struct {
	meetingService  meetingUsecase.Service
	snapshotService snapshot.Service
	logger          *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(meetingService meetingUsecase.Service, snapshotService snapshot.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		meetingService:  meetingService,
		snapshotService: snapshotService,
		logger:          logger,
	}
}

// CreateMeeting handles POST /meetings
func (h *Meeting) CreateMeeting(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.CreateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	m, err := h.meetingService.CreateMeeting(c.Request().Context(), meetingUsecase.CreateMeetingInput{
		Title:  req.Title,
		Caller: caller,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleCreated(h.logger, c, presenter.ToMeetingResponse(m, nil))
}

// GetMeeting handles GET /meetings/:id
func (h *Meeting) GetMeeting(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.meetingService.GetMeeting(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	agenda, err := h.meetingService.ListAgenda(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(m, agenda))
}

// JoinMeeting handles POST /meetings/:id/join
func (h *Meeting) JoinMeeting(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	p, err := h.meetingService.JoinMeeting(c.Request().Context(), meetingID, caller)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToParticipantResponse(p))
}

// AddCoFacilitator handles POST /meetings/:id/facilitators
func (h *Meeting) AddCoFacilitator(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.AddCoFacilitatorRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("user_id must be a valid UUID"))
	}

	if err := h.meetingService.AddCoFacilitator(c.Request().Context(), meetingID, userID, caller); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]string{"status": "added"})
}

// AddActivity handles POST /meetings/:id/activities
func (h *Meeting) AddActivity(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.AddActivityRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	activity, err := h.meetingService.AddActivity(c.Request().Context(), meetingUsecase.AddActivityInput{
		MeetingID: meetingID,
		ToolType:  entities.ToolType(req.ToolType),
		Title:     req.Title,
		Config:    toActivityConfig(req.Config),
		Caller:    caller,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleCreated(h.logger, c, presenter.ToActivityResponse(activity))
}

// UpdateActivitySettings handles PATCH /meetings/:id/activities/:activity_id/settings
func (h *Meeting) UpdateActivitySettings(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	activityID, err := parseUUIDParam(c, "activity_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	activity, err := h.meetingService.UpdateActivitySettings(c.Request().Context(), meetingUsecase.UpdateSettingsInput{
		MeetingID:  meetingID,
		ActivityID: activityID,
		Config:     toActivityConfig(req.Config),
		Caller:     caller,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToActivityResponse(activity))
}

// ListAgenda handles GET /meetings/:id/activities
func (h *Meeting) ListAgenda(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	agenda, err := h.meetingService.ListAgenda(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	responses := make([]*meetingDTO.ActivityResponse, len(agenda))
	for i, a := range agenda {
		responses[i] = presenter.ToActivityResponse(a)
	}

	return HandleSuccess(h.logger, c, responses)
}

// ArchiveMeeting handles POST /meetings/:id/archive
func (h *Meeting) ArchiveMeeting(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.meetingService.ArchiveMeeting(c.Request().Context(), meetingID, caller); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]string{"status": "archived"})
}

// GetMeetingState handles GET /meetings/:id/state, the participant poll
// endpoint. Responses are plain snapshot payloads so polling clients can
// compare versions without unwrapping the envelope.
func (h *Meeting) GetMeetingState(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	snap, err := h.snapshotService.MeetingState(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, snap)
}

// toActivityConfig maps the config DTO onto the entity form
func toActivityConfig(req meetingDTO.ActivityConfigRequest) entities.ActivityConfig {
	config := entities.ActivityConfig{
		MaxVotes:         req.MaxVotes,
		AllowSubcomments: req.AllowSubcomments,
		AllowAnonymous:   req.AllowAnonymous,
		ShowResults:      req.ShowResults,
	}
	for _, opt := range req.Options {
		config.Options = append(config.Options, entities.VoteOption{
			ID:    opt.ID,
			Label: opt.Label,
		})
	}
	return config
}
