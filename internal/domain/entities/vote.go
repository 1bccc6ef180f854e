package entities

import (
	"time"

	"github.com/google/uuid"
)

// Vote records one participant's live selection of one option within a
// voting activity. Re-adding an identical (participant, option) pair is a
// no-op, enforced by the unique index.
type Vote struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ActivityID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_activity_voter_option" json:"activity_id"`
	ParticipantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_activity_voter_option" json:"participant_id"`
	OptionID      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_activity_voter_option" json:"option_id"`
	CreatedAt     time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for Vote
func (Vote) TableName() string {
	return "votes"
}

// OptionTally is the live vote count for one option. The count always equals
// the number of distinct (participant, option) pairs currently recorded.
type OptionTally struct {
	OptionID string `json:"option_id"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}
