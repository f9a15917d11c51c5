package users

import (
	"context"

	"github.com/dkarpov/tasktrack/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A duplicate email yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
