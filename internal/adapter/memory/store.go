package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
	"github.com/groupflow-app/groupflow/internal/domain/repositories"
)

// Store is the in-memory implementation of repositories.Store, backed by
// mutex-guarded maps. It powers tests and the STORE_DRIVER=memory dev mode
// with the same semantics the Postgres adapter provides.
//
// Atomic serializes per meeting: writes inside the block become visible to
// other callers only in the order the per-meeting lock admits them. Usecases
// validate before writing, so a failed call leaves no partial state behind.
type Store struct {
	mu sync.RWMutex

	meetings     map[uuid.UUID]*entities.Meeting
	facilitators map[uuid.UUID][]*entities.Facilitator
	participants map[uuid.UUID][]*entities.Participant
	activities   map[uuid.UUID]*entities.Activity
	submissions  map[uuid.UUID]*entities.Submission
	votes        map[string]*entities.Vote
	ledger       map[string]*entities.IdempotencyRecord

	lockMu       sync.Mutex
	meetingLocks map[uuid.UUID]*sync.Mutex
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		meetings:     make(map[uuid.UUID]*entities.Meeting),
		facilitators: make(map[uuid.UUID][]*entities.Facilitator),
		participants: make(map[uuid.UUID][]*entities.Participant),
		activities:   make(map[uuid.UUID]*entities.Activity),
		submissions:  make(map[uuid.UUID]*entities.Submission),
		votes:        make(map[string]*entities.Vote),
		ledger:       make(map[string]*entities.IdempotencyRecord),
		meetingLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

var _ repositories.Store = (*Store)(nil)

func (s *Store) Meetings() repositories.MeetingRepository       { return (*meetingRepo)(s) }
func (s *Store) Activities() repositories.ActivityRepository    { return (*activityRepo)(s) }
func (s *Store) Submissions() repositories.SubmissionRepository { return (*submissionRepo)(s) }
func (s *Store) Votes() repositories.VoteRepository             { return (*voteRepo)(s) }
func (s *Store) Ledger() repositories.IdempotencyRepository     { return (*ledgerRepo)(s) }

// Atomic runs fn under the meeting's lock. Two Atomic calls for the same
// meeting never interleave; calls for different meetings proceed in parallel.
func (s *Store) Atomic(ctx context.Context, meetingID uuid.UUID, fn func(repositories.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := s.meetingLock(meetingID)
	lock.Lock()
	defer lock.Unlock()

	return fn(s)
}

func (s *Store) meetingLock(meetingID uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	lock, ok := s.meetingLocks[meetingID]
	if !ok {
		lock = &sync.Mutex{}
		s.meetingLocks[meetingID] = lock
	}
	return lock
}

func voteKey(activityID, participantID uuid.UUID, optionID string) string {
	return fmt.Sprintf("%s|%s|%s", activityID, participantID, optionID)
}

func ledgerMapKey(activityID uuid.UUID, key string) string {
	return fmt.Sprintf("%s|%s", activityID, key)
}

// Meeting repository

type meetingRepo Store

func (r *meetingRepo) Create(ctx context.Context, meeting *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if meeting.ID == uuid.Nil {
		meeting.ID = uuid.New()
	}
	stored := *meeting
	r.meetings[meeting.ID] = &stored
	return nil
}

func (r *meetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meeting, ok := r.meetings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *meeting
	return &copied, nil
}

func (r *meetingRepo) Update(ctx context.Context, meeting *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.meetings[meeting.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *meeting
	r.meetings[meeting.ID] = &stored
	return nil
}

func (r *meetingRepo) BumpStateVersion(ctx context.Context, meetingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meeting, ok := r.meetings[meetingID]
	if !ok {
		return repositories.ErrNotFound
	}
	meeting.StateVersion++
	return nil
}

func (r *meetingRepo) AddFacilitator(ctx context.Context, facilitator *entities.Facilitator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.facilitators[facilitator.MeetingID] {
		if f.UserID == facilitator.UserID {
			return repositories.ErrDuplicate
		}
	}
	if facilitator.ID == uuid.Nil {
		facilitator.ID = uuid.New()
	}
	stored := *facilitator
	r.facilitators[facilitator.MeetingID] = append(r.facilitators[facilitator.MeetingID], &stored)
	return nil
}

func (r *meetingRepo) IsFacilitator(ctx context.Context, meetingID, userID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.facilitators[meetingID] {
		if f.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *meetingRepo) AddParticipant(ctx context.Context, participant *entities.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.participants[participant.MeetingID] {
		if p.UserID == participant.UserID {
			return repositories.ErrDuplicate
		}
	}
	if participant.ID == uuid.Nil {
		participant.ID = uuid.New()
	}
	stored := *participant
	r.participants[participant.MeetingID] = append(r.participants[participant.MeetingID], &stored)
	return nil
}

func (r *meetingRepo) FindParticipant(ctx context.Context, meetingID, userID uuid.UUID) (*entities.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.participants[meetingID] {
		if p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// Activity repository

type activityRepo Store

func (r *activityRepo) Create(ctx context.Context, activity *entities.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	stored := *activity
	r.activities[activity.ID] = &stored
	return nil
}

func (r *activityRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *activity
	return &copied, nil
}

func (r *activityRepo) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*entities.Activity
	for _, a := range r.activities {
		if a.MeetingID == meetingID {
			copied := *a
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	return list, nil
}

func (r *activityRepo) FindRunningByMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.activities {
		if a.MeetingID == meetingID && a.Phase == entities.ActivityPhaseRunning {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *activityRepo) Update(ctx context.Context, activity *entities.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.activities[activity.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *activity
	r.activities[activity.ID] = &stored
	return nil
}

// Submission repository

type submissionRepo Store

func (r *submissionRepo) Create(ctx context.Context, submission *entities.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	stored := *submission
	r.submissions[submission.ID] = &stored
	return nil
}

func (r *submissionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	submission, ok := r.submissions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *submission
	return &copied, nil
}

func (r *submissionRepo) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*entities.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*entities.Submission
	for _, s := range r.submissions {
		if s.ActivityID == activityID {
			copied := *s
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
	return list, nil
}

func (r *submissionRepo) CountByActivity(ctx context.Context, activityID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, s := range r.submissions {
		if s.ActivityID == activityID {
			count++
		}
	}
	return count, nil
}

// Vote repository

type voteRepo Store

func (r *voteRepo) Create(ctx context.Context, vote *entities.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := voteKey(vote.ActivityID, vote.ParticipantID, vote.OptionID)
	if _, ok := r.votes[key]; ok {
		return repositories.ErrDuplicate
	}
	if vote.ID == uuid.Nil {
		vote.ID = uuid.New()
	}
	stored := *vote
	r.votes[key] = &stored
	return nil
}

func (r *voteRepo) Delete(ctx context.Context, activityID, participantID uuid.UUID, optionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := voteKey(activityID, participantID, optionID)
	if _, ok := r.votes[key]; !ok {
		return false, nil
	}
	delete(r.votes, key)
	return true, nil
}

func (r *voteRepo) Exists(ctx context.Context, activityID, participantID uuid.UUID, optionID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.votes[voteKey(activityID, participantID, optionID)]
	return ok, nil
}

func (r *voteRepo) ListByParticipant(ctx context.Context, activityID, participantID uuid.UUID) ([]*entities.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*entities.Vote
	for _, v := range r.votes {
		if v.ActivityID == activityID && v.ParticipantID == participantID {
			copied := *v
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (r *voteRepo) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*entities.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*entities.Vote
	for _, v := range r.votes {
		if v.ActivityID == activityID {
			copied := *v
			list = append(list, &copied)
		}
	}
	return list, nil
}

// Idempotency ledger

type ledgerRepo Store

func (r *ledgerRepo) Reserve(ctx context.Context, record *entities.IdempotencyRecord) (bool, *entities.IdempotencyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ledgerMapKey(record.ActivityID, record.Key)
	if existing, ok := r.ledger[key]; ok {
		copied := *existing
		return false, &copied, nil
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Status = entities.IdempotencyStatusPending
	stored := *record
	r.ledger[key] = &stored
	return true, nil, nil
}

func (r *ledgerRepo) Get(ctx context.Context, activityID uuid.UUID, key string) (*entities.IdempotencyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.ledger[ledgerMapKey(activityID, key)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *ledgerRepo) Complete(ctx context.Context, activityID uuid.UUID, key string, submissionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.ledger[ledgerMapKey(activityID, key)]
	if !ok {
		return repositories.ErrNotFound
	}
	record.Complete(submissionID)
	return nil
}

func (r *ledgerRepo) Release(ctx context.Context, activityID uuid.UUID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.ledger, ledgerMapKey(activityID, key))
	return nil
}
