package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
	"github.com/groupflow-app/groupflow/internal/domain/repositories"
)

// RedisLedger implements the idempotency ledger on Redis. SetNX elects the
// winner for a (activity, key) pair across processes; losers poll the stored
// value until the winner records its outcome. Records expire after the
// configured TTL since retention beyond the activity lifetime is a
// collaborator concern.
type RedisLedger struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLedger creates a ledger over the given Redis client
func NewRedisLedger(client *redis.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{client: client, ttl: ttl}
}

var _ repositories.IdempotencyRepository = (*RedisLedger)(nil)

type ledgerValue struct {
	Status       entities.IdempotencyStatus `json:"status"`
	SubmissionID *uuid.UUID                 `json:"submission_id,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	CompletedAt  *time.Time                 `json:"completed_at,omitempty"`
}

func ledgerKey(activityID uuid.UUID, key string) string {
	return fmt.Sprintf("idem:%s:%s", activityID, key)
}

// Reserve claims (record.ActivityID, record.Key) via SetNX
func (l *RedisLedger) Reserve(ctx context.Context, record *entities.IdempotencyRecord) (bool, *entities.IdempotencyRecord, error) {
	record.Status = entities.IdempotencyStatusPending
	record.CreatedAt = time.Now()

	payload, err := json.Marshal(ledgerValue{
		Status:    record.Status,
		CreatedAt: record.CreatedAt,
	})
	if err != nil {
		return false, nil, fmt.Errorf("failed to marshal ledger value: %w", err)
	}

	won, err := l.client.SetNX(ctx, ledgerKey(record.ActivityID, record.Key), payload, l.ttl).Result()
	if err != nil {
		return false, nil, fmt.Errorf("%w: %v", repositories.ErrTransient, err)
	}
	if won {
		return true, nil, nil
	}

	existing, err := l.Get(ctx, record.ActivityID, record.Key)
	if err != nil {
		// The winner released between SetNX and GET; treat as a lost race the
		// caller resolves by retrying the reservation.
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil, repositories.ErrTransient
		}
		return false, nil, err
	}
	return false, existing, nil
}

// Get returns the record for (activityID, key), or ErrNotFound
func (l *RedisLedger) Get(ctx context.Context, activityID uuid.UUID, key string) (*entities.IdempotencyRecord, error) {
	raw, err := l.client.Get(ctx, ledgerKey(activityID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", repositories.ErrTransient, err)
	}

	var val ledgerValue
	if err := json.Unmarshal(raw, &val); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger value: %w", err)
	}

	return &entities.IdempotencyRecord{
		ActivityID:   activityID,
		Key:          key,
		Status:       val.Status,
		SubmissionID: val.SubmissionID,
		CreatedAt:    val.CreatedAt,
		CompletedAt:  val.CompletedAt,
	}, nil
}

// Complete records the winning outcome, keeping the original TTL
func (l *RedisLedger) Complete(ctx context.Context, activityID uuid.UUID, key string, submissionID uuid.UUID) error {
	now := time.Now()
	payload, err := json.Marshal(ledgerValue{
		Status:       entities.IdempotencyStatusCompleted,
		SubmissionID: &submissionID,
		CreatedAt:    now,
		CompletedAt:  &now,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal ledger value: %w", err)
	}

	if err := l.client.Set(ctx, ledgerKey(activityID, key), payload, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", repositories.ErrTransient, err)
	}
	return nil
}

// Release abandons a pending reservation so a corrected retry can win again
func (l *RedisLedger) Release(ctx context.Context, activityID uuid.UUID, key string) error {
	if err := l.client.Del(ctx, ledgerKey(activityID, key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", repositories.ErrTransient, err)
	}
	return nil
}
