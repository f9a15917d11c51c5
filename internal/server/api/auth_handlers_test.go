package api

import (
	"net/http"
	"testing"

	"github.com/dkarpov/tasktrack/internal/common"
	"github.com/dkarpov/tasktrack/internal/server/models"
	"github.com/dkarpov/tasktrack/internal/server/services"
)

func TestRegisterHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		ts := newTestServer(t)
		ts.users.registerOut = &services.AuthResult{
			User:  &models.PublicUser{ID: "u-1", Name: "Ann", Email: "ann@example.com"},
			Token: "tok",
		}

		rec := ts.request(t, http.MethodPost, "/auth/register",
			`{"name":"Ann","email":"ann@example.com","password":"secret1"}`, "")

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
		}
		var body authResponse
		decodeBody(t, rec, &body)
		if body.Token != "tok" || body.User == nil || body.User.ID != "u-1" {
			t.Fatalf("unexpected body: %+v", body)
		}
	})

	t.Run("validation details are forwarded", func(t *testing.T) {
		ts := newTestServer(t)
		v := common.NewValidationError()
		v.Add("email", "must be a valid email address")
		ts.users.registerErr = v

		rec := ts.request(t, http.MethodPost, "/auth/register", `{}`, "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		msg, details := errorMessage(t, rec)
		if msg != "Validation error" || details["email"] == "" {
			t.Fatalf("unexpected error body: %q %v", msg, details)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		ts := newTestServer(t)
		ts.users.registerErr = common.ErrorConflict

		rec := ts.request(t, http.MethodPost, "/auth/register",
			`{"name":"Ann","email":"ann@example.com","password":"secret1"}`, "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		msg, _ := errorMessage(t, rec)
		if msg != "Email already registered" {
			t.Fatalf("message = %q", msg)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.request(t, http.MethodPost, "/auth/register", `{"name":`, "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ts := newTestServer(t)
		ts.users.loginOut = &services.AuthResult{
			User:  &models.PublicUser{ID: "u-1", Email: "ann@example.com"},
			Token: "tok",
		}

		rec := ts.request(t, http.MethodPost, "/auth/login",
			`{"email":"ann@example.com","password":"secret1"}`, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
		}
		var body authResponse
		decodeBody(t, rec, &body)
		if body.Token != "tok" {
			t.Fatalf("unexpected body: %+v", body)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		ts := newTestServer(t)
		ts.users.loginErr = common.ErrorInvalidCredentials

		rec := ts.request(t, http.MethodPost, "/auth/login",
			`{"email":"ann@example.com","password":"wrong"}`, "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		msg, _ := errorMessage(t, rec)
		if msg != "Invalid credentials" {
			t.Fatalf("message = %q", msg)
		}
	})
}

func TestProfileHandler(t *testing.T) {
	ts := newTestServer(t)
	ts.users.profileOut = &models.PublicUser{ID: "u-1", Name: "Ann", Email: "ann@example.com"}

	rec := ts.request(t, http.MethodGet, "/auth/me", "", tokenFor(t, "u-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var body map[string]*models.PublicUser
	decodeBody(t, rec, &body)
	if body["user"] == nil || body["user"].ID != "u-1" {
		t.Fatalf("unexpected body: %v", body)
	}
}
