package export

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/groupflow-app/groupflow/internal/domain/entities"
)

// ObjectStorage is the storage collaborator exports are written to
type ObjectStorage interface {
	UploadBytes(ctx context.Context, objectName string, content []byte, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// ExportResult points at the stored export object
type ExportResult struct {
	ObjectKey   string
	DownloadURL string
}

// Service renders the results of a closed activity to CSV and stores them
type Service interface {
	// ExportActivity exports a closed activity; facilitator only
	ExportActivity(ctx context.Context, meetingID, activityID uuid.UUID, caller entities.CallerIdentity) (*ExportResult, error)
}

// Ensure ExportService implements Service interface
var _ Service = (*ExportService)(nil)
