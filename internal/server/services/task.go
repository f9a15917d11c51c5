package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dkarpov/tasktrack/internal/common"
	"github.com/dkarpov/tasktrack/internal/server/models"
	"github.com/dkarpov/tasktrack/internal/server/repositories/repomanager"
	"github.com/dkarpov/tasktrack/internal/server/repositories/tasks"
)

const (
	defaultLimit = 10
	maxLimit     = 50
	defaultSort  = "-createdAt"
)

// CreateTaskParams carries task creation input. Nil optional fields take
// their documented defaults.
type CreateTaskParams struct {
	Title       string
	Description *string
	Status      *models.Status
	DueDate     *time.Time
}

// UpdateTaskParams carries a partial update. Nil pointers leave the field
// untouched; DueDateSet with a nil DueDate clears the stored due date.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Status      *models.Status
	DueDate     *time.Time
	DueDateSet  bool
}

// ListTasksParams selects and orders one page of the owner's tasks.
type ListTasksParams struct {
	Status string
	Page   int
	Limit  int
	Sort   string
}

type ListMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type TaskPage struct {
	Tasks []*models.Task
	Meta  ListMeta
}

// TaskService enforces per-owner isolation and input validation over the
// task store. Every operation takes the authenticated owner id; ownership
// supplied by clients is never trusted.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// Create validates the input and persists a task owned by ownerID.
func (s *TaskService) Create(ctx context.Context, ownerID string, p CreateTaskParams) (*models.Task, error) {
	v := common.NewValidationError()

	title := strings.TrimSpace(p.Title)
	validateTitle(v, title)

	description := ""
	if p.Description != nil {
		description = strings.TrimSpace(*p.Description)
		validateDescription(v, description)
	}

	status := models.StatusTodo
	if p.Status != nil {
		validateStatus(v, *p.Status)
		status = *p.Status
	}

	if !v.Empty() {
		return nil, v
	}

	task := &models.Task{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Status:      status,
		DueDate:     p.DueDate,
	}

	return s.repomanager.Tasks(s.db).Create(ctx, task)
}

// List returns one page of the owner's tasks plus pagination metadata.
// Page is clamped to a minimum of 1 and limit to [1, 50]; an empty result
// still reports one page.
func (s *TaskService) List(ctx context.Context, ownerID string, p ListTasksParams) (*TaskPage, error) {
	page := p.Page
	if page < 1 {
		page = 1
	}

	limit := p.Limit
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	sort := p.Sort
	if sort == "" {
		sort = defaultSort
	}

	repo := s.repomanager.Tasks(s.db)

	total, err := repo.Count(ctx, ownerID, p.Status)
	if err != nil {
		return nil, err
	}

	items, err := repo.List(ctx, tasks.ListFilter{
		OwnerID: ownerID,
		Status:  p.Status,
		Sort:    sort,
		Limit:   limit,
		Offset:  (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages == 0 {
		pages = 1
	}

	return &TaskPage{
		Tasks: items,
		Meta:  ListMeta{Total: total, Page: page, Limit: limit, Pages: pages},
	}, nil
}

// Get returns the owner's task or common.ErrorNotFound. A task owned by
// someone else is reported exactly like a missing one.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	return s.repomanager.Tasks(s.db).Get(ctx, ownerID, taskID)
}

// Update applies a validated partial update. Supplying no fields at all is a
// valid no-op that returns the task unchanged.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, p UpdateTaskParams) (*models.Task, error) {
	v := common.NewValidationError()
	upd := tasks.Update{DueDate: p.DueDate, DueDateSet: p.DueDateSet}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		validateTitle(v, title)
		upd.Title = &title
	}
	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		validateDescription(v, description)
		upd.Description = &description
	}
	if p.Status != nil {
		validateStatus(v, *p.Status)
		upd.Status = p.Status
	}

	if !v.Empty() {
		return nil, v
	}

	if upd.Title == nil && upd.Description == nil && upd.Status == nil && !upd.DueDateSet {
		return s.repomanager.Tasks(s.db).Get(ctx, ownerID, taskID)
	}

	return s.repomanager.Tasks(s.db).Update(ctx, ownerID, taskID, upd)
}

// Delete removes the owner's task. Deleting a missing or foreign task yields
// common.ErrorNotFound, so a second delete of the same id is not an error of
// a different kind.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	return s.repomanager.Tasks(s.db).Delete(ctx, ownerID, taskID)
}
