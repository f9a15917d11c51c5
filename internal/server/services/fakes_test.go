package services

import (
	"context"
	"database/sql"

	"github.com/dkarpov/tasktrack/internal/common"
	"github.com/dkarpov/tasktrack/internal/dbx"
	"github.com/dkarpov/tasktrack/internal/server/models"
	attachmentsrepo "github.com/dkarpov/tasktrack/internal/server/repositories/attachments"
	"github.com/dkarpov/tasktrack/internal/server/repositories/repomanager"
	tasksrepo "github.com/dkarpov/tasktrack/internal/server/repositories/tasks"
	usersrepo "github.com/dkarpov/tasktrack/internal/server/repositories/users"
)

// --- in-test fakes shared by the service tests ---

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User

	created   *models.User
	createErr error
	getErr    error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-new"
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeTasksRepo struct {
	getOut    *models.Task
	getErr    error
	listOut   []*models.Task
	listErr   error
	countOut  int64
	countErr  error
	updateOut *models.Task
	updateErr error
	deleteErr error
	createErr error

	created      *models.Task
	lastFilter   tasksrepo.ListFilter
	lastUpdate   tasksrepo.Update
	updateCalled bool
}

func (f *fakeTasksRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	t.ID = "t-new"
	f.created = t
	return t, nil
}

func (f *fakeTasksRepo) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeTasksRepo) List(ctx context.Context, filter tasksrepo.ListFilter) ([]*models.Task, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeTasksRepo) Count(ctx context.Context, ownerID, status string) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.countOut, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, ownerID, taskID string, upd tasksrepo.Update) (*models.Task, error) {
	f.updateCalled = true
	f.lastUpdate = upd
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, ownerID, taskID string) error {
	return f.deleteErr
}

type fakeAttachmentsRepo struct {
	getOut    *models.Attachment
	getErr    error
	listOut   []*models.Attachment
	listErr   error
	deleteErr error
	createErr error

	created *models.Attachment
}

func (f *fakeAttachmentsRepo) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = "a-new"
	f.created = a
	return a, nil
}

func (f *fakeAttachmentsRepo) Get(ctx context.Context, ownerID, taskID, attachmentID string) (*models.Attachment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeAttachmentsRepo) ListByTask(ctx context.Context, ownerID, taskID string) ([]*models.Attachment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeAttachmentsRepo) Delete(ctx context.Context, ownerID, taskID, attachmentID string) error {
	return f.deleteErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTasksRepo
	a *fakeAttachmentsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository      { return m.t }
func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachmentsrepo.Repository {
	return m.a
}

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)
