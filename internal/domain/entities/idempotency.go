package entities

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyStatus tracks the lifecycle of a reservation
type IdempotencyStatus string

const (
	// IdempotencyStatusPending marks a reservation whose winner has not yet
	// recorded an outcome. Losers poll until it leaves this state.
	IdempotencyStatusPending IdempotencyStatus = "pending"
	// IdempotencyStatusCompleted marks a recorded outcome that every replay
	// of the same key returns.
	IdempotencyStatusCompleted IdempotencyStatus = "completed"
)

// IdempotencyRecord maps a caller-supplied key, scoped to one activity, to
// the outcome of the first successful processing of that key. The same key
// reused in a different activity is a different key.
type IdempotencyRecord struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ActivityID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_activity_idem_key" json:"activity_id"`
	Key        string            `gorm:"type:varchar(128);not null;uniqueIndex:idx_activity_idem_key" json:"key"`
	Status     IdempotencyStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	// SubmissionID points at the resource created by the winning call.
	SubmissionID *uuid.UUID `gorm:"type:uuid" json:"submission_id,omitempty"`

	CreatedAt   time.Time  `gorm:"default:now()" json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TableName specifies the table name for IdempotencyRecord
func (IdempotencyRecord) TableName() string {
	return "idempotency_records"
}

// IsCompleted reports whether the winner has recorded an outcome
func (r *IdempotencyRecord) IsCompleted() bool {
	return r.Status == IdempotencyStatusCompleted
}

// Complete records the winning outcome
func (r *IdempotencyRecord) Complete(submissionID uuid.UUID) {
	now := time.Now()
	r.Status = IdempotencyStatusCompleted
	r.SubmissionID = &submissionID
	r.CompletedAt = &now
}
