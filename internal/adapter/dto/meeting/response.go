package meeting

import "time"

// MeetingResponse is the boundary representation of a meeting
type MeetingResponse struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Status            string              `json:"status"`
	FacilitatorID     string              `json:"facilitator_id"`
	StateVersion      int64               `json:"state_version"`
	CurrentActivityID *string             `json:"current_activity_id,omitempty"`
	Activities        []*ActivityResponse `json:"activities,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// ActivityResponse is the boundary representation of an agenda activity
type ActivityResponse struct {
	ID              string                `json:"id"`
	MeetingID       string                `json:"meeting_id"`
	ToolType        string                `json:"tool_type"`
	Title           string                `json:"title"`
	Position        int                   `json:"position"`
	Phase           string                `json:"phase"`
	Config          ActivityConfigRequest `json:"config"`
	SubmissionCount int64                 `json:"submission_count"`
	StartedAt       *time.Time            `json:"started_at,omitempty"`
	ClosedAt        *time.Time            `json:"closed_at,omitempty"`
}

// ParticipantResponse is the boundary representation of a participant
type ParticipantResponse struct {
	ID          string    `json:"id"`
	MeetingID   string    `json:"meeting_id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

// StartToolResponse reports a start_tool outcome. Status is "started" for a
// fresh start and "already_running" for an idempotent repeat call.
type StartToolResponse struct {
	Status   string            `json:"status"`
	Activity *ActivityResponse `json:"activity"`
}

// SubmissionResponse is the boundary representation of one submission
type SubmissionResponse struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activity_id"`
	ParentID   *string   `json:"parent_id,omitempty"`
	Seq        int64     `json:"seq"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	Anonymous  bool      `json:"anonymous"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubmitContentResponse reports a committed (or replayed) submission
type SubmitContentResponse struct {
	SubmissionID string `json:"submission_id"`
	Seq          int64  `json:"seq"`
	Replayed     bool   `json:"replayed"`
}

// SubmissionListResponse is the full current set of an activity's submissions
type SubmissionListResponse struct {
	Submissions []*SubmissionResponse `json:"submissions"`
	Total       int                   `json:"total"`
}

// OptionTallyResponse is the live count for one option
type OptionTallyResponse struct {
	OptionID string `json:"option_id"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}

// CastVoteResponse reports the tally after a vote action committed
type CastVoteResponse struct {
	OptionID   string `json:"option_id"`
	TallyAfter int    `json:"tally_after"`
	Changed    bool   `json:"changed"`
}

// ExportResponse points at a stored activity export
type ExportResponse struct {
	ObjectKey   string `json:"object_key"`
	DownloadURL string `json:"download_url"`
}
