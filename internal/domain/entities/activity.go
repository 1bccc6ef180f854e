package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ToolType represents the behavioral variant of an activity
type ToolType string

const (
	ToolTypeBrainstorming ToolType = "brainstorming"
	ToolTypeVoting        ToolType = "voting"
	ToolTypeTransfer      ToolType = "transfer"
)

// ActivityPhase represents the lifecycle phase of an activity
type ActivityPhase string

const (
	ActivityPhaseNotStarted ActivityPhase = "not_started"
	ActivityPhaseRunning    ActivityPhase = "running"
	ActivityPhasePaused     ActivityPhase = "paused"
	ActivityPhaseClosed     ActivityPhase = "closed"
)

// VoteOption is one selectable choice of a voting activity
type VoteOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ActivityConfig holds the type-specific configuration of an activity.
// It is immutable once the activity has received participant input (a
// submission or a vote), except the live-editable ShowResults flag.
type ActivityConfig struct {
	// Voting
	Options  []VoteOption `json:"options,omitempty"`
	MaxVotes int          `json:"max_votes,omitempty"`

	// Brainstorming
	AllowSubcomments bool `json:"allow_subcomments,omitempty"`
	AllowAnonymous   bool `json:"allow_anonymous,omitempty"`

	// Live-editable
	ShowResults bool `json:"show_results"`
}

// HasOption checks whether the config contains the given option id
func (c ActivityConfig) HasOption(optionID string) bool {
	for _, opt := range c.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// Activity represents one agenda item bound to a tool type. At most one
// activity per meeting is in the running phase at any time.
type Activity struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingID uuid.UUID     `gorm:"type:uuid;not null;index" json:"meeting_id"`
	Meeting   *Meeting      `gorm:"foreignKey:MeetingID" json:"meeting,omitempty"`
	ToolType  ToolType      `gorm:"type:varchar(30);not null" json:"tool_type"`
	Title     string        `gorm:"type:varchar(255);not null" json:"title"`
	Position  int           `gorm:"not null" json:"position"`
	Phase     ActivityPhase `gorm:"type:varchar(20);default:'not_started';index" json:"phase"`

	Config datatypes.JSONType[ActivityConfig] `gorm:"type:jsonb" json:"config"`

	// SubmissionSeq is the last sequence number handed out. Submissions are
	// immutable, so it doubles as the submission count.
	SubmissionSeq int64 `gorm:"not null;default:0" json:"submission_seq"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Activity
func (Activity) TableName() string {
	return "activities"
}

// IsRunning checks whether the activity currently accepts writes
func (a *Activity) IsRunning() bool {
	return a.Phase == ActivityPhaseRunning
}

// AcceptsSubmissions reports whether the tool type takes participant content
func (a *Activity) AcceptsSubmissions() bool {
	return a.ToolType == ToolTypeBrainstorming || a.ToolType == ToolTypeTransfer
}

// AcceptsVotes reports whether the tool type takes votes
func (a *Activity) AcceptsVotes() bool {
	return a.ToolType == ToolTypeVoting
}

// SupportsThreading reports whether replies to top-level submissions are allowed
func (a *Activity) SupportsThreading() bool {
	return a.ToolType == ToolTypeBrainstorming && a.Config.Data().AllowSubcomments
}

// Start moves the activity into the running phase
func (a *Activity) Start() {
	now := time.Now()
	a.Phase = ActivityPhaseRunning
	if a.StartedAt == nil {
		a.StartedAt = &now
	}
	a.ClosedAt = nil
}

// Pause suspends a running activity
func (a *Activity) Pause() {
	a.Phase = ActivityPhasePaused
}

// Close moves the activity into its terminal phase
func (a *Activity) Close() {
	now := time.Now()
	a.Phase = ActivityPhaseClosed
	a.ClosedAt = &now
}

// ConfigLocked reports whether submissions have locked the configuration.
// Voting activities additionally lock once a vote is recorded; that check
// needs the vote store and lives in the meeting service.
func (a *Activity) ConfigLocked() bool {
	return a.SubmissionSeq > 0
}
