package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
	"github.com/groupflow-app/groupflow/internal/domain/repositories"
	usecaseErrors "github.com/groupflow-app/groupflow/internal/usecase/errors"
)

// downloadLinkExpiry bounds how long an export download link stays valid
const downloadLinkExpiry = 24 * time.Hour

// ExportService renders closed-activity results to CSV in object storage
type ExportService struct {
	store   repositories.Store
	storage ObjectStorage
	logger  *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(store repositories.Store, storage ObjectStorage, logger *zap.Logger) *ExportService {
	return &ExportService{
		store:   store,
		storage: storage,
		logger:  logger,
	}
}

// ExportActivity exports a closed activity's submissions or tallies
func (s *ExportService) ExportActivity(ctx context.Context, meetingID, activityID uuid.UUID, caller entities.CallerIdentity) (*ExportResult, error) {
	if _, err := s.store.Meetings().FindByID(ctx, meetingID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, usecaseErrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	ok, err := s.store.Meetings().IsFacilitator(ctx, meetingID, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check facilitator role: %w", err)
	}
	if !ok {
		return nil, usecaseErrors.ErrNotFacilitator
	}

	activity, err := s.store.Activities().FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, usecaseErrors.ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if activity.MeetingID != meetingID {
		return nil, usecaseErrors.ErrActivityNotFound
	}
	if activity.Phase != entities.ActivityPhaseClosed {
		return nil, usecaseErrors.ErrExportNotReady
	}

	var content []byte
	if activity.AcceptsVotes() {
		content, err = s.renderTallies(ctx, activity)
	} else {
		content, err = s.renderSubmissions(ctx, activity)
	}
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("exports/%s/%s-%d.csv", meetingID, activityID, time.Now().Unix())
	if err := s.storage.UploadBytes(ctx, objectKey, content, "text/csv"); err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, objectKey, downloadLinkExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate download link: %w", err)
	}

	s.logger.Info("export.completed",
		zap.String("meeting_id", meetingID.String()),
		zap.String("activity_id", activityID.String()),
		zap.String("object_key", objectKey),
	)

	return &ExportResult{ObjectKey: objectKey, DownloadURL: url}, nil
}

func (s *ExportService) renderSubmissions(ctx context.Context, activity *entities.Activity) ([]byte, error) {
	submissions, err := s.store.Submissions().ListByActivity(ctx, activity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"seq", "author", "content", "parent_seq", "created_at"}); err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	bySeq := make(map[uuid.UUID]int64, len(submissions))
	for _, sub := range submissions {
		bySeq[sub.ID] = sub.Seq
	}

	for _, sub := range submissions {
		parentSeq := ""
		if sub.ParentID != nil {
			parentSeq = strconv.FormatInt(bySeq[*sub.ParentID], 10)
		}
		record := []string{
			strconv.FormatInt(sub.Seq, 10),
			sub.AuthorName,
			sub.Content,
			parentSeq,
			sub.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to render export: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExportService) renderTallies(ctx context.Context, activity *entities.Activity) ([]byte, error) {
	votes, err := s.store.Votes().ListByActivity(ctx, activity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	counts := make(map[string]int)
	for _, v := range votes {
		counts[v.OptionID]++
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"option_id", "label", "votes"}); err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	for _, opt := range activity.Config.Data().Options {
		record := []string{opt.ID, opt.Label, strconv.Itoa(counts[opt.ID])}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to render export: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}
	return buf.Bytes(), nil
}
