package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/groupflow-app/groupflow/errors"
	"github.com/groupflow-app/groupflow/internal/domain/entities"
	usecaseErrors "github.com/groupflow-app/groupflow/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
	Info    string            `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return handleSuccessStatus(logger, c, http.StatusOK, data)
}

// HandleCreated writes a standardized success response with 201 Created
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return handleSuccessStatus(logger, c, http.StatusCreated, data)
}

func handleSuccessStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging. Domain sentinels are
// translated first so every handler surfaces the same wire shape.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	err = mapDomainError(c, err)
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
			Info:    info,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	internal := errors.ErrInternal(err)
	body := errs{
		Code:    internal.Code,
		Message: internal.Message,
		Info:    err.Error(),
	}

	return c.JSON(internal.HTTPCode, body)
}

// mapDomainError translates usecase and entity sentinels into AppError.
// Errors that already carry an AppError pass through untouched.
func mapDomainError(c echo.Context, err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return err
	}

	meetingID := c.Param("id")
	activityID := c.Param("activity_id")

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrMeetingNotFound):
		return errors.ErrMeetingNotFound(meetingID)
	case stdErrors.Is(err, usecaseErrors.ErrMeetingArchived):
		return errors.ErrMeetingArchived(meetingID)
	case stdErrors.Is(err, usecaseErrors.ErrNotFacilitator):
		return errors.ErrNotFacilitator()
	case stdErrors.Is(err, usecaseErrors.ErrNotParticipant):
		return errors.ErrForbidden("caller is not a participant of this meeting")
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyFacilitator):
		return errors.ErrConflict("user is already a facilitator")
	case stdErrors.Is(err, usecaseErrors.ErrActivityNotFound):
		return errors.ErrActivityNotFound(activityID)
	case stdErrors.Is(err, usecaseErrors.ErrActivityNotAccepting):
		return errors.ErrActivityNotAccepting(activityID, "")
	case stdErrors.Is(err, usecaseErrors.ErrIllegalTransition):
		return errors.ErrIllegalTransition("", "")
	case stdErrors.Is(err, usecaseErrors.ErrWrongToolType):
		return errors.ErrWrongToolType("")
	case stdErrors.Is(err, usecaseErrors.ErrSubmissionNotFound):
		return errors.ErrNotFound("submission")
	case stdErrors.Is(err, usecaseErrors.ErrInvalidParent):
		return errors.ErrInvalidParent("")
	case stdErrors.Is(err, usecaseErrors.ErrIdempotencyTimeout):
		return errors.ErrIdempotencyTimeout("")
	case stdErrors.Is(err, usecaseErrors.ErrQuotaExceeded):
		return errors.ErrQuotaExceeded(0)
	case stdErrors.Is(err, usecaseErrors.ErrUnknownOption):
		return errors.ErrUnknownOption("")
	case stdErrors.Is(err, usecaseErrors.ErrExportNotReady):
		return errors.ErrExportNotReady(activityID)
	case stdErrors.Is(err, usecaseErrors.ErrTransient):
		return errors.ErrTransient(err)
	case stdErrors.Is(err, usecaseErrors.ErrForbidden):
		return errors.ErrForbidden(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrNotFound):
		return errors.ErrNotFound("resource")
	case stdErrors.Is(err, usecaseErrors.ErrConflict):
		return errors.ErrConflict(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput),
		stdErrors.Is(err, entities.ErrInvalidTitle),
		stdErrors.Is(err, entities.ErrInvalidToolType),
		stdErrors.Is(err, entities.ErrInvalidContent),
		stdErrors.Is(err, entities.ErrInvalidOption),
		stdErrors.Is(err, entities.ErrMissingVoteOptions),
		stdErrors.Is(err, entities.ErrInvalidMaxVotes):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, entities.ErrConfigLocked):
		return errors.ErrConfigLocked()
	}

	return err
}

// requireCaller pulls the authenticated identity set by the auth middleware
func requireCaller(c echo.Context) (entities.CallerIdentity, error) {
	caller, ok := c.Get("caller").(entities.CallerIdentity)
	if !ok {
		return entities.CallerIdentity{}, errors.ErrUnauthenticated()
	}
	return caller, nil
}

// parseUUIDParam parses a path parameter as UUID
func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument(name + " must be a valid UUID")
	}
	return id, nil
}
