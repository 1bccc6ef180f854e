package entities

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousAuthorName is the placeholder shown instead of the author's
// display name when a submission was made anonymously.
const AnonymousAuthorName = "Anonymous"

// Submission is one participant-authored unit of content (idea or comment).
// Submissions form a two-level thread: a reply's parent must be top-level.
// Submissions are immutable once created.
type Submission struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ActivityID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_activity_seq" json:"activity_id"`
	Activity   *Activity  `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`

	// Seq is assigned without gaps or duplicates within the activity.
	Seq     int64  `gorm:"not null;uniqueIndex:idx_activity_seq" json:"seq"`
	Content string `gorm:"type:text;not null" json:"content"`

	// AuthorID is nil for anonymous submissions; AuthorName then carries the
	// anonymized placeholder.
	AuthorID   *uuid.UUID `gorm:"type:uuid;index" json:"author_id,omitempty"`
	AuthorName string     `gorm:"type:varchar(255);not null" json:"author_name"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for Submission
func (Submission) TableName() string {
	return "submissions"
}

// IsTopLevel reports whether the submission can be replied to
func (s *Submission) IsTopLevel() bool {
	return s.ParentID == nil
}

// IsAnonymous reports whether the author identity was withheld
func (s *Submission) IsAnonymous() bool {
	return s.AuthorID == nil
}
