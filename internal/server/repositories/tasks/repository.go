package tasks

import (
	"context"
	"time"

	"github.com/dkarpov/tasktrack/internal/server/models"
)

// ListFilter describes one owner-scoped page of tasks. Sort uses the API's
// signed-prefix form, e.g. "-createdAt" for newest first.
type ListFilter struct {
	OwnerID string
	Status  string
	Sort    string
	Limit   int
	Offset  int
}

// Update carries a partial set of task fields. Nil pointers mean "leave
// untouched". DueDateSet distinguishes an absent dueDate from an explicit
// null that clears the stored value.
type Update struct {
	Title       *string
	Description *string
	Status      *models.Status
	DueDate     *time.Time
	DueDateSet  bool
}

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	// Get returns common.ErrorNotFound both for a missing id and for a task
	// owned by someone else.
	Get(ctx context.Context, ownerID, taskID string) (*models.Task, error)
	List(ctx context.Context, f ListFilter) ([]*models.Task, error)
	Count(ctx context.Context, ownerID, status string) (int64, error)
	Update(ctx context.Context, ownerID, taskID string, upd Update) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}
