package entities

import "errors"

// Domain errors
var (
	ErrInvalidTitle       = errors.New("invalid title")
	ErrInvalidToolType    = errors.New("invalid tool type")
	ErrInvalidContent     = errors.New("invalid content")
	ErrInvalidOption      = errors.New("option not part of this activity")
	ErrConfigLocked       = errors.New("activity configuration is locked after first submission")
	ErrMissingVoteOptions = errors.New("voting activity requires at least two options")
	ErrInvalidMaxVotes    = errors.New("max votes must be at least 1")
)
