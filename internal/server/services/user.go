// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and profile lookup, and
// issues session JWTs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkarpov/tasktrack/internal/common"
	"github.com/dkarpov/tasktrack/internal/server/auth"
	"github.com/dkarpov/tasktrack/internal/server/config"
	"github.com/dkarpov/tasktrack/internal/server/models"
	"github.com/dkarpov/tasktrack/internal/server/repositories/repomanager"
)

// AuthResult bundles the public view of a user with a fresh session token.
type AuthResult struct {
	User  *models.PublicUser
	Token string
}

// UserService provides authentication-related operations:
// - Register: validate input, create the user, mint a token
// - Login: verify credentials and mint a token
// - Profile: return the public fields of an authenticated user
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user and returns its public view plus a session
// token. A well-formed but already registered email yields
// common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if err := validateRegisterInput(name, email, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorConflict
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		// the unique constraint backs up the lookup above under concurrency
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{User: user.Public(), Token: token}, nil
}

// Login verifies the credentials and, on success, returns the user's public
// view and a fresh token. A missing account and a wrong password are
// reported identically as common.ErrorInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	if err := validateLoginInput(email, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{User: user.Public(), Token: token}, nil
}

// Profile returns the public fields of the given user.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}
