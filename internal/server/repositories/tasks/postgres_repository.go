package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dkarpov/tasktrack/internal/common"
	"github.com/dkarpov/tasktrack/internal/dbx"
	"github.com/dkarpov/tasktrack/internal/server/models"
)

// sortColumns maps API sort field names to table columns. Fields outside
// this whitelist fall back to the default ordering.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"status":    "status",
}

// orderByClause translates a signed-prefix sort expression ("-createdAt")
// into a SQL ORDER BY fragment. Unknown fields order by created_at DESC.
func orderByClause(sort string) string {
	field := sort
	desc := false
	if strings.HasPrefix(sort, "-") {
		desc = true
		field = sort[1:]
	}

	col, ok := sortColumns[field]
	if !ok {
		col, desc = "created_at", true
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return col + " " + dir
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = "id, user_id, title, description, status, due_date, created_at, updated_at"

func scanTask(row interface{ Scan(dest ...any) error }) (*models.Task, error) {
	task := &models.Task{}
	var due sql.NullTime
	err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
		&task.Status, &due, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		t := due.Time
		task.DueDate = &t
	}
	return task, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`INSERT INTO tasks (user_id, title, description, status, due_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	var due sql.NullTime
	if task.DueDate != nil {
		due = sql.NullTime{Time: *task.DueDate, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Description, task.Status, due).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) List(ctx context.Context, f ListFilter) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{f.OwnerID}

	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	query += ` ORDER BY ` + orderByClause(f.Sort)
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tasks, nil
}

func (r *PostgresRepository) Count(ctx context.Context, ownerID, status string) (int64, error) {
	query := `SELECT count(*) FROM tasks WHERE user_id = $1`
	args := []any{ownerID}

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, ownerID, taskID string, upd Update) (*models.Task, error) {
	set := make([]string, 0, 5)
	args := make([]any, 0, 6)

	add := func(column string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.DueDateSet {
		if upd.DueDate == nil {
			set = append(set, "due_date = NULL")
		} else {
			add("due_date", *upd.DueDate)
		}
	}
	set = append(set, "updated_at = now()")

	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args)+1, len(args)+2, taskColumns)
	args = append(args, taskID, ownerID)

	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, taskID string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
