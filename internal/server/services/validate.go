package services

import (
	"net/mail"
	"unicode/utf8"

	"github.com/dkarpov/tasktrack/internal/common"
	"github.com/dkarpov/tasktrack/internal/server/models"
)

// Input bounds, matching the persisted schema constraints.
const (
	nameMinLen        = 2
	nameMaxLen        = 60
	passwordMinLen    = 6
	passwordMaxLen    = 100
	titleMinLen       = 2
	titleMaxLen       = 120
	descriptionMaxLen = 2000
)

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// validateRegisterInput checks registration input shape without touching any
// store. A nil result means the input is well-formed.
func validateRegisterInput(name, email, password string) error {
	v := common.NewValidationError()

	if n := utf8.RuneCountInString(name); n < nameMinLen || n > nameMaxLen {
		v.Add("name", "must be between 2 and 60 characters")
	}
	if !validEmail(email) {
		v.Add("email", "must be a valid email address")
	}
	if n := len(password); n < passwordMinLen || n > passwordMaxLen {
		v.Add("password", "must be between 6 and 100 characters")
	}

	if v.Empty() {
		return nil
	}
	return v
}

func validateLoginInput(email, password string) error {
	v := common.NewValidationError()

	if !validEmail(email) {
		v.Add("email", "must be a valid email address")
	}
	if n := len(password); n < passwordMinLen || n > passwordMaxLen {
		v.Add("password", "must be between 6 and 100 characters")
	}

	if v.Empty() {
		return nil
	}
	return v
}

func validateTitle(v *common.ValidationError, title string) {
	if n := utf8.RuneCountInString(title); n < titleMinLen || n > titleMaxLen {
		v.Add("title", "must be between 2 and 120 characters")
	}
}

func validateDescription(v *common.ValidationError, description string) {
	if utf8.RuneCountInString(description) > descriptionMaxLen {
		v.Add("description", "must be at most 2000 characters")
	}
}

func validateStatus(v *common.ValidationError, status models.Status) {
	if !status.Valid() {
		v.Add("status", "must be one of todo, doing, done")
	}
}
