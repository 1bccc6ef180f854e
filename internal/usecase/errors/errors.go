package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrForbidden     = errors.New("forbidden access")
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("resource conflict")
	ErrTransient     = errors.New("transient failure, retry")
	ErrInternalError = errors.New("internal server error")
)

// Meeting errors
var (
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrMeetingArchived    = errors.New("meeting is archived")
	ErrNotFacilitator     = errors.New("user is not a facilitator of this meeting")
	ErrNotParticipant     = errors.New("user is not a participant of this meeting")
	ErrAlreadyFacilitator = errors.New("user is already a facilitator")
)

// Activity errors
var (
	ErrActivityNotFound     = errors.New("activity not found")
	ErrActivityNotAccepting = errors.New("activity is not accepting writes in its current phase")
	ErrActivityClosed       = errors.New("activity is closed")
	ErrIllegalTransition    = errors.New("illegal activity phase transition")
	ErrWrongToolType        = errors.New("operation not supported by this tool type")
)

// Submission errors
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidParent      = errors.New("parent must be a top-level submission of the same activity")
	ErrIdempotencyTimeout = errors.New("timed out waiting for duplicate request outcome")
)

// Vote errors
var (
	ErrQuotaExceeded = errors.New("vote limit reached for this activity")
	ErrUnknownOption = errors.New("option not part of this activity")
)

// Export errors
var (
	ErrExportNotReady = errors.New("activity must be closed before export")
)
