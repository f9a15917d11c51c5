package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dkarpov/tasktrack/internal/common"
	"github.com/dkarpov/tasktrack/internal/server/auth"
	"github.com/dkarpov/tasktrack/internal/server/config"
	"github.com/dkarpov/tasktrack/internal/server/models"
)

func newSQLMockDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newUserService(t *testing.T, rm *fakeRepoManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
	}
	return NewUserService(newSQLMockDB(t), rm, cfg)
}

func TestRegister_Success(t *testing.T) {
	repo := &fakeUsersRepo{byEmail: map[string]*models.User{}}
	svc := newUserService(t, &fakeRepoManager{u: repo})

	res, err := svc.Register(context.Background(), "Ann", "Ann@X.com ", "secret1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if res.User.ID != "u-new" || res.User.Name != "Ann" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if res.User.Email != "ann@x.com" {
		t.Fatalf("email must be normalized, got %q", res.User.Email)
	}

	if repo.created.PasswordHash == "secret1" || repo.created.PasswordHash == "" {
		t.Fatalf("password must be stored hashed, got %q", repo.created.PasswordHash)
	}
	if !auth.CheckPassword("secret1", repo.created.PasswordHash) {
		t.Fatalf("stored hash must verify against the original password")
	}

	subject, err := auth.GetUserIDFromToken(res.Token, []byte("k"))
	if err != nil {
		t.Fatalf("token verification error: %v", err)
	}
	if subject != "u-new" {
		t.Fatalf("token subject = %q, want %q", subject, "u-new")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &fakeUsersRepo{byEmail: map[string]*models.User{
		"ann@x.com": {ID: "u-1", Email: "ann@x.com"},
	}}
	svc := newUserService(t, &fakeRepoManager{u: repo})

	_, err := svc.Register(context.Background(), "Ann", "ann@x.com", "secret1")
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want common.ErrorConflict, got %v", err)
	}
	if repo.created != nil {
		t.Fatalf("no user must be created on conflict")
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
		field    string
	}{
		{"short name", "A", "ann@x.com", "secret1", "name"},
		{"bad email", "Ann", "not-an-email", "secret1", "email"},
		{"short password", "Ann", "ann@x.com", "12345", "password"},
		{"long password", "Ann", "ann@x.com", string(make([]byte, 101)), "password"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeUsersRepo{byEmail: map[string]*models.User{}}
			svc := newUserService(t, &fakeRepoManager{u: repo})

			_, err := svc.Register(context.Background(), tc.userName, tc.email, tc.password)

			var vErr *common.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("want *common.ValidationError, got %v", err)
			}
			if _, ok := vErr.Fields[tc.field]; !ok {
				t.Fatalf("want detail for field %q, got %v", tc.field, vErr.Fields)
			}
			if repo.created != nil {
				t.Fatalf("no store mutation on validation failure")
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	repo := &fakeUsersRepo{byEmail: map[string]*models.User{
		"ann@x.com": {ID: "u-1", Name: "Ann", Email: "ann@x.com", PasswordHash: hash},
	}}
	svc := newUserService(t, &fakeRepoManager{u: repo})

	res, err := svc.Login(context.Background(), "ANN@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	subject, err := auth.GetUserIDFromToken(res.Token, []byte("k"))
	if err != nil {
		t.Fatalf("token verification error: %v", err)
	}
	if subject != "u-1" {
		t.Fatalf("token subject = %q, want %q", subject, "u-1")
	}
}

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	repo := &fakeUsersRepo{byEmail: map[string]*models.User{
		"ann@x.com": {ID: "u-1", Email: "ann@x.com", PasswordHash: hash},
	}}
	svc := newUserService(t, &fakeRepoManager{u: repo})

	_, errUnknown := svc.Login(context.Background(), "ghost@x.com", "secret1")
	_, errWrong := svc.Login(context.Background(), "ann@x.com", "wrong-password")

	if !errors.Is(errUnknown, common.ErrorInvalidCredentials) {
		t.Fatalf("unknown email: want common.ErrorInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrong, common.ErrorInvalidCredentials) {
		t.Fatalf("wrong password: want common.ErrorInvalidCredentials, got %v", errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("both failures must be externally identical")
	}
}

func TestProfile(t *testing.T) {
	now := time.Now()
	repo := &fakeUsersRepo{byID: map[string]*models.User{
		"u-1": {ID: "u-1", Name: "Ann", Email: "ann@x.com", PasswordHash: "hash", CreatedAt: now},
	}}
	svc := newUserService(t, &fakeRepoManager{u: repo})

	user, err := svc.Profile(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Profile error: %v", err)
	}
	if user.ID != "u-1" || user.Email != "ann@x.com" || !user.CreatedAt.Equal(now) {
		t.Fatalf("unexpected profile: %+v", user)
	}

	_, err = svc.Profile(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
