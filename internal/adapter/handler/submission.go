package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/groupflow-app/groupflow/errors"
	meetingDTO "github.com/groupflow-app/groupflow/internal/adapter/dto/meeting"
	"github.com/groupflow-app/groupflow/internal/adapter/presenter"
	"github.com/groupflow-app/groupflow/internal/usecase/submission"
)

// Submission handles participant content HTTP requests
type Submission struct {
	submissionService submission.Service
	logger            *zap.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionService submission.Service, logger *zap.Logger) *Submission {
	return &Submission{
		submissionService: submissionService,
		logger:            logger,
	}
}

// Submit handles POST /meetings/:id/activities/:activity_id/submissions.
// The idempotency key comes from the Idempotency-Key header or the request
// body; the header wins when both are present.
func (h *Submission) Submit(c echo.Context) error {
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

	var req meetingDTO.SubmitContentRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	key := c.Request().Header.Get("Idempotency-Key")
	if key == "" {
		key = req.IdempotencyKey
	}
	if key == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("idempotency key is required"))
	}

	var parentID *uuid.UUID
	if req.ParentID != nil {
		id, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("parent_id must be a valid UUID"))
		}
		parentID = &id
	}

	result, err := h.submissionService.Submit(c.Request().Context(), submission.SubmitInput{
		MeetingID:      meetingID,
		ActivityID:     activityID,
		IdempotencyKey: key,
		Content:        req.Content,
		ParentID:       parentID,
		Anonymous:      req.Anonymous,
		Caller:         caller,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := &meetingDTO.SubmitContentResponse{
		SubmissionID: result.SubmissionID.String(),
		Seq:          result.Seq,
		Replayed:     result.Replayed,
	}
	if result.Replayed {
		return HandleSuccess(h.logger, c, resp)
	}
	return HandleCreated(h.logger, c, resp)
}

// ListSubmissions handles GET /meetings/:id/activities/:activity_id/submissions
func (h *Submission) ListSubmissions(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	activityID, err := parseUUIDParam(c, "activity_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	submissions, err := h.submissionService.ListSubmissions(c.Request().Context(), meetingID, activityID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToSubmissionListResponse(submissions))
}
