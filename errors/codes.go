package errors

// ErrorCode identifies the stable machine-readable kind of an AppError.
// Codes are part of the API contract; never renumber existing ones.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_FORBIDDEN        ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1005
	ErrorCode_CONFLICT         ErrorCode = 1006
	ErrorCode_TRANSIENT        ErrorCode = 1007

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2001

	// Meeting / activity orchestration
	ErrorCode_MEETING_NOT_FOUND      ErrorCode = 3000
	ErrorCode_MEETING_ARCHIVED       ErrorCode = 3001
	ErrorCode_ACTIVITY_NOT_FOUND     ErrorCode = 3002
	ErrorCode_ACTIVITY_NOT_ACCEPTING ErrorCode = 3003
	ErrorCode_ILLEGAL_TRANSITION     ErrorCode = 3004
	ErrorCode_WRONG_TOOL_TYPE        ErrorCode = 3005
	ErrorCode_CONFIG_LOCKED          ErrorCode = 3006

	// Submissions
	ErrorCode_INVALID_PARENT      ErrorCode = 4000
	ErrorCode_IDEMPOTENCY_TIMEOUT ErrorCode = 4001

	// Voting
	ErrorCode_QUOTA_EXCEEDED ErrorCode = 5000
	ErrorCode_UNKNOWN_OPTION ErrorCode = 5001

	// Export
	ErrorCode_EXPORT_NOT_READY ErrorCode = 6000
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                "OK",
	ErrorCode_INTERNAL:               "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:       "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:              "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:         "ALREADY_EXISTS",
	ErrorCode_FORBIDDEN:              "FORBIDDEN",
	ErrorCode_UNAUTHENTICATED:        "UNAUTHENTICATED",
	ErrorCode_CONFLICT:               "CONFLICT",
	ErrorCode_TRANSIENT:              "TRANSIENT",
	ErrorCode_AUTH_INVALID_TOKEN:     "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:     "AUTH_TOKEN_EXPIRED",
	ErrorCode_MEETING_NOT_FOUND:      "MEETING_NOT_FOUND",
	ErrorCode_MEETING_ARCHIVED:       "MEETING_ARCHIVED",
	ErrorCode_ACTIVITY_NOT_FOUND:     "ACTIVITY_NOT_FOUND",
	ErrorCode_ACTIVITY_NOT_ACCEPTING: "ACTIVITY_NOT_ACCEPTING",
	ErrorCode_ILLEGAL_TRANSITION:     "ILLEGAL_TRANSITION",
	ErrorCode_WRONG_TOOL_TYPE:        "WRONG_TOOL_TYPE",
	ErrorCode_CONFIG_LOCKED:          "CONFIG_LOCKED",
	ErrorCode_INVALID_PARENT:         "INVALID_PARENT",
	ErrorCode_IDEMPOTENCY_TIMEOUT:    "IDEMPOTENCY_TIMEOUT",
	ErrorCode_QUOTA_EXCEEDED:         "QUOTA_EXCEEDED",
	ErrorCode_UNKNOWN_OPTION:         "UNKNOWN_OPTION",
	ErrorCode_EXPORT_NOT_READY:       "EXPORT_NOT_READY",
}

// String returns the stable name for the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
