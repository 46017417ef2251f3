package attachments

import (
	"context"
	"time"
)

// Repo defines persistence operations for attachments.
type Repo interface {
	Create(ctx context.Context, att Attachment) error
	GetByID(ctx context.Context, userID, attachmentID string) (Attachment, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Attachment, error)
	UpdateExtraction(ctx context.Context, userID, attachmentID, extractedKey string, extractedAt time.Time) error
	Delete(ctx context.Context, userID, attachmentID string) (bool, error)
}
