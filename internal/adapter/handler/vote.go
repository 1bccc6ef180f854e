package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/groupflow-app/groupflow/errors"
	meetingDTO "github.com/groupflow-app/groupflow/internal/adapter/dto/meeting"
	"github.com/groupflow-app/groupflow/internal/adapter/presenter"
	"github.com/groupflow-app/groupflow/internal/usecase/voting"
)

// Vote handles vote casting and tally HTTP requests
type Vote struct {
	votingService voting.Service
	logger        *zap.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(votingService voting.Service, logger *zap.Logger) *Vote {
	return &Vote{
		votingService: votingService,
		logger:        logger,
	}
}

// CastVote handles POST /meetings/:id/activities/:activity_id/votes
func (h *Vote) CastVote(c echo.Context) error {
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

	var req meetingDTO.CastVoteRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	result, err := h.votingService.CastVote(c.Request().Context(), voting.CastVoteInput{
		MeetingID:  meetingID,
		ActivityID: activityID,
		OptionID:   req.OptionID,
		Action:     voting.VoteAction(req.Action),
		Caller:     caller,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToCastVoteResponse(result))
}

// GetTallies handles GET /meetings/:id/activities/:activity_id/tallies
func (h *Vote) GetTallies(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	activityID, err := parseUUIDParam(c, "activity_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	tallies, err := h.votingService.Tallies(c.Request().Context(), meetingID, activityID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToOptionTallyResponses(tallies))
}
