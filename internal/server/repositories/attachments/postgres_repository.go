package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkarpov/tasktrack/internal/common"
	"github.com/dkarpov/tasktrack/internal/dbx"
	"github.com/dkarpov/tasktrack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error) {

	query :=
		`INSERT INTO attachments (task_id, file_name, storage_key)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		attachment.TaskID, attachment.FileName, attachment.StorageKey).
		Scan(&attachment.ID, &attachment.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attachment, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, taskID, attachmentID string) (*models.Attachment, error) {
	query :=
		`SELECT a.id, a.task_id, a.file_name, a.storage_key, a.created_at
		 FROM attachments a
		 JOIN tasks t ON t.id = a.task_id
		 WHERE a.id = $1 AND a.task_id = $2 AND t.user_id = $3
		 `

	attachment := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, attachmentID, taskID, ownerID).Scan(
		&attachment.ID, &attachment.TaskID, &attachment.FileName, &attachment.StorageKey, &attachment.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attachment, nil
}

func (r *PostgresRepository) ListByTask(ctx context.Context, ownerID, taskID string) ([]*models.Attachment, error) {
	query :=
		`SELECT a.id, a.task_id, a.file_name, a.storage_key, a.created_at
		 FROM attachments a
		 JOIN tasks t ON t.id = a.task_id
		 WHERE a.task_id = $1 AND t.user_id = $2
		 ORDER BY a.created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, taskID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	attachments := make([]*models.Attachment, 0)
	for rows.Next() {
		attachment := &models.Attachment{}
		if err := rows.Scan(&attachment.ID, &attachment.TaskID, &attachment.FileName,
			&attachment.StorageKey, &attachment.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		attachments = append(attachments, attachment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attachments, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, taskID, attachmentID string) error {
	query :=
		`DELETE FROM attachments a
		 USING tasks t
		 WHERE t.id = a.task_id AND a.id = $1 AND a.task_id = $2 AND t.user_id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, attachmentID, taskID, ownerID)
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
