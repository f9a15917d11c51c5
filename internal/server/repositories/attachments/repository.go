package attachments

import (
	"context"

	"github.com/dkarpov/tasktrack/internal/server/models"
)

// Repository persists attachment metadata. All lookups are scoped through
// the parent task's owner, so a foreign task's attachments are
// indistinguishable from absent ones.
type Repository interface {
	Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error)
	Get(ctx context.Context, ownerID, taskID, attachmentID string) (*models.Attachment, error)
	ListByTask(ctx context.Context, ownerID, taskID string) ([]*models.Attachment, error)
	Delete(ctx context.Context, ownerID, taskID, attachmentID string) error
}
