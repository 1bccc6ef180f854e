package meeting

// CreateMeetingRequest is the payload for POST /meetings
type CreateMeetingRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// AddCoFacilitatorRequest is the payload for POST /meetings/:id/facilitators
type AddCoFacilitatorRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// VoteOptionRequest is one selectable choice of a voting activity
type VoteOptionRequest struct {
	ID    string `json:"id" validate:"required,max=64"`
	Label string `json:"label" validate:"required,max=255"`
}

// ActivityConfigRequest carries the type-specific activity configuration
type ActivityConfigRequest struct {
	Options          []VoteOptionRequest `json:"options,omitempty" validate:"omitempty,dive"`
	MaxVotes         int                 `json:"max_votes,omitempty" validate:"omitempty,min=1"`
	AllowSubcomments bool                `json:"allow_subcomments,omitempty"`
	AllowAnonymous   bool                `json:"allow_anonymous,omitempty"`
	ShowResults      bool                `json:"show_results"`
}

// AddActivityRequest is the payload for POST /meetings/:id/activities
type AddActivityRequest struct {
	ToolType string                `json:"tool_type" validate:"required,tooltype"`
	Title    string                `json:"title" validate:"required,min=1,max=255"`
	Config   ActivityConfigRequest `json:"config"`
}

// UpdateSettingsRequest is the payload for PATCH .../activities/:aid/settings
type UpdateSettingsRequest struct {
	Config ActivityConfigRequest `json:"config"`
}

// SubmitContentRequest is the payload for POST .../activities/:aid/submissions.
// The idempotency key may alternatively arrive in the Idempotency-Key header.
type SubmitContentRequest struct {
	Content        string  `json:"content" validate:"required,min=1,max=4000"`
	ParentID       *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	Anonymous      bool    `json:"anonymous,omitempty"`
	IdempotencyKey string  `json:"idempotency_key,omitempty" validate:"omitempty,max=128"`
}

// CastVoteRequest is the payload for POST .../activities/:aid/votes
type CastVoteRequest struct {
	OptionID string `json:"option_id" validate:"required,max=64"`
	Action   string `json:"action" validate:"required,voteaction"`
}
