package errors

import (
	"fmt"
	"net/http"
)

// AppError is the custom error type surfaced at the HTTP boundary
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrForbidden(action string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_FORBIDDEN,
		Message:  fmt.Sprintf("Forbidden: %s", action),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UNAUTHENTICATED,
		Message:  "Authentication required",
	}
}

func ErrConflict(message string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_CONFLICT,
		Message:  message,
	}
}

// ErrTransient marks a retryable failure; callers may repeat the request
func ErrTransient(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusServiceUnavailable,
		Code:     ErrorCode_TRANSIENT,
		Message:  "Temporary failure, please retry",
	}
}

// Authentication Errors

func ErrInvalidToken() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_INVALID_TOKEN,
		Message:  "Invalid authentication token",
	}
}

func ErrTokenExpired() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_TOKEN_EXPIRED,
		Message:  "Authentication token has expired",
	}
}

// Meeting Errors

func ErrMeetingNotFound(meetingID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_MEETING_NOT_FOUND,
		Message:  "Meeting not found",
	}.WithDetail("meeting_id", meetingID)
}

func ErrMeetingArchived(meetingID string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_MEETING_ARCHIVED,
		Message:  "Meeting is archived",
	}.WithDetail("meeting_id", meetingID)
}

func ErrNotFacilitator() AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_FORBIDDEN,
		Message:  "Caller is not a facilitator of this meeting",
	}
}

// Activity Errors

func ErrActivityNotFound(activityID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_ACTIVITY_NOT_FOUND,
		Message:  "Activity not found",
	}.WithDetail("activity_id", activityID)
}

// ErrActivityNotAccepting signals the phase gate: only a running activity
// accepts participant writes.
func ErrActivityNotAccepting(activityID, phase string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_ACTIVITY_NOT_ACCEPTING,
		Message:  "Activity is not accepting writes in its current phase",
	}.WithDetail("activity_id", activityID).
		WithDetail("phase", phase)
}

func ErrIllegalTransition(from, requested string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_ILLEGAL_TRANSITION,
		Message:  "Illegal activity phase transition",
	}.WithDetail("current_phase", from).
		WithDetail("requested", requested)
}

func ErrWrongToolType(toolType string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_WRONG_TOOL_TYPE,
		Message:  "Operation not supported by this tool type",
	}.WithDetail("tool_type", toolType)
}

func ErrConfigLocked() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_CONFIG_LOCKED,
		Message:  "Activity configuration is locked once participant input exists",
	}
}

// Submission Errors

func ErrInvalidParent(parentID string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PARENT,
		Message:  "Parent must be a top-level submission of the same activity",
	}.WithDetail("parent_id", parentID)
}

func ErrIdempotencyTimeout(key string) AppError {
	return AppError{
		HTTPCode: http.StatusServiceUnavailable,
		Code:     ErrorCode_IDEMPOTENCY_TIMEOUT,
		Message:  "Timed out waiting for the duplicate request to finish",
	}.WithDetail("idempotency_key", key)
}

// Vote Errors

func ErrQuotaExceeded(maxVotes int) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_QUOTA_EXCEEDED,
		Message:  "Vote limit reached for this activity",
	}.WithDetail("max_votes", fmt.Sprintf("%d", maxVotes))
}

func ErrUnknownOption(optionID string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_UNKNOWN_OPTION,
		Message:  "Option is not part of this activity",
	}.WithDetail("option_id", optionID)
}

// Export Errors

func ErrExportNotReady(activityID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_EXPORT_NOT_READY,
		Message:  "Activity must be closed before export",
	}.WithDetail("activity_id", activityID)
}
