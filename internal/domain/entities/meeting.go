package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeetingStatus represents the soft lifecycle of a meeting
type MeetingStatus string

const (
	MeetingStatusActive   MeetingStatus = "active"
	MeetingStatusArchived MeetingStatus = "archived"
)

// FacilitatorRole distinguishes the primary facilitator from co-facilitators
type FacilitatorRole string

const (
	FacilitatorRolePrimary FacilitatorRole = "primary"
	FacilitatorRoleCo      FacilitatorRole = "co"
)

// Meeting represents a live facilitated session with an ordered agenda of
// tool activities. A meeting is never hard-deleted while submissions
// reference it; archiving is the only terminal state.
type Meeting struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title         string        `gorm:"type:varchar(255);not null" json:"title"`
	Status        MeetingStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	FacilitatorID uuid.UUID     `gorm:"type:uuid;not null;index" json:"facilitator_id"`

	// StateVersion increases on every committed write touching the meeting's
	// activity state. Polling clients compare it to skip unchanged payloads.
	StateVersion int64 `gorm:"not null;default:0" json:"state_version"`

	// CurrentActivityID points at the activity the facilitator most recently
	// started. It stays set while the activity is paused and is cleared when
	// it closes, so polling clients always see the agenda item on stage.
	CurrentActivityID *uuid.UUID `gorm:"type:uuid" json:"current_activity_id,omitempty"`

	Facilitators []Facilitator `gorm:"foreignKey:MeetingID" json:"facilitators,omitempty"`
	Participants []Participant `gorm:"foreignKey:MeetingID" json:"participants,omitempty"`
	Activities   []Activity    `gorm:"foreignKey:MeetingID" json:"activities,omitempty"`

	CreatedAt time.Time      `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// IsArchived checks whether the meeting has been archived
func (m *Meeting) IsArchived() bool {
	return m.Status == MeetingStatusArchived
}

// Archive moves the meeting into its terminal soft state
func (m *Meeting) Archive() {
	m.Status = MeetingStatusArchived
}

// Facilitator represents a user's facilitator role on one meeting.
// Exactly one row per meeting carries FacilitatorRolePrimary.
type Facilitator struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingID uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_meeting_facilitator" json:"meeting_id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_meeting_facilitator" json:"user_id"`
	Role      FacilitatorRole `gorm:"type:varchar(20);default:'co'" json:"role"`
	CreatedAt time.Time       `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for Facilitator
func (Facilitator) TableName() string {
	return "facilitators"
}

// IsPrimary checks if this is the primary facilitator
func (f *Facilitator) IsPrimary() bool {
	return f.Role == FacilitatorRolePrimary
}

// Participant represents a user attending a meeting
type Participant struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_meeting_participant" json:"meeting_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_meeting_participant" json:"user_id"`
	DisplayName string    `gorm:"type:varchar(255);not null" json:"display_name"`
	JoinedAt    time.Time `gorm:"default:now()" json:"joined_at"`
}

// TableName specifies the table name for Participant
func (Participant) TableName() string {
	return "participants"
}
