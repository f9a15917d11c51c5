// Package repomanager hands out repositories bound to a database handle,
// so that services can run several repositories inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkarpov/tasktrack/internal/dbx"
	"github.com/dkarpov/tasktrack/internal/server/repositories/attachments"
	"github.com/dkarpov/tasktrack/internal/server/repositories/tasks"
	"github.com/dkarpov/tasktrack/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}
