package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/groupflow-app/groupflow/errors"
	meetingDTO "github.com/groupflow-app/groupflow/internal/adapter/dto/meeting"
	"github.com/groupflow-app/groupflow/internal/adapter/presenter"
	"github.com/groupflow-app/groupflow/internal/usecase/export"
	"github.com/groupflow-app/groupflow/internal/usecase/orchestration"
)

// Activity handles facilitator control actions on agenda activities
type Activity struct {
	orchestrationService orchestration.Service
	exportService        export.Service
	logger               *zap.Logger
}

// NewActivityHandler creates a new activity control handler. exportService may
// be nil when no object storage is configured.
func NewActivityHandler(orchestrationService orchestration.Service, exportService export.Service, logger *zap.Logger) *Activity {
	return &Activity{
		orchestrationService: orchestrationService,
		exportService:        exportService,
		logger:               logger,
	}
}

// StartTool handles POST /meetings/:id/activities/:activity_id/start.
// Repeating the call against an already-running activity succeeds and is
// reported through the response status field.
func (h *Activity) StartTool(c echo.Context) error {
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

	result, err := h.orchestrationService.StartTool(c.Request().Context(), meetingID, activityID, caller)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	status := "started"
	if result.WasAlreadyRunning {
		status = "already_running"
	}

	return HandleSuccess(h.logger, c, &meetingDTO.StartToolResponse{
		Status:   status,
		Activity: presenter.ToActivityResponse(result.Activity),
	})
}

// PauseTool handles POST /meetings/:id/activities/:activity_id/pause
func (h *Activity) PauseTool(c echo.Context) error {
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

	activity, err := h.orchestrationService.PauseTool(c.Request().Context(), meetingID, activityID, caller)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToActivityResponse(activity))
}

// ResumeTool handles POST /meetings/:id/activities/:activity_id/resume
func (h *Activity) ResumeTool(c echo.Context) error {
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

	activity, err := h.orchestrationService.ResumeTool(c.Request().Context(), meetingID, activityID, caller)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToActivityResponse(activity))
}

// CloseTool handles POST /meetings/:id/activities/:activity_id/close
func (h *Activity) CloseTool(c echo.Context) error {
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

	activity, err := h.orchestrationService.CloseTool(c.Request().Context(), meetingID, activityID, caller)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToActivityResponse(activity))
}

// ExportActivity handles POST /meetings/:id/activities/:activity_id/export
func (h *Activity) ExportActivity(c echo.Context) error {
	if h.exportService == nil {
		return HandleError(h.logger, c, errors.ErrConflict("export storage is not configured"))
	}

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

	result, err := h.exportService.ExportActivity(c.Request().Context(), meetingID, activityID, caller)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &meetingDTO.ExportResponse{
		ObjectKey:   result.ObjectKey,
		DownloadURL: result.DownloadURL,
	})
}
