package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkarpov/tasktrack/internal/common"
)

type errorBody struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error(r.Context(), err.Error())
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, status int, message string, details map[string]string) {
	s.writeJSON(w, r, status, errorEnvelope{Error: errorBody{Message: message, Details: details}})
}

// serviceError maps service failures onto the response contract. notFoundMsg
// names the resource so "Task not found" and "User not found" stay distinct,
// while internals are logged and never leaked.
func (s *HTTPServer) serviceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {

	var vErr *common.ValidationError
	if errors.As(err, &vErr) {
		s.writeError(w, r, http.StatusBadRequest, "Validation error", vErr.Fields)
		return
	}

	switch {
	case errors.Is(err, common.ErrorInvalidCredentials):
		s.writeError(w, r, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, common.ErrorConflict):
		s.writeError(w, r, http.StatusConflict, "Email already registered", nil)
	case errors.Is(err, common.ErrorNotFound):
		s.writeError(w, r, http.StatusNotFound, notFoundMsg, nil)
	default:
		s.logger.Error(r.Context(), err.Error())
		s.writeError(w, r, http.StatusInternalServerError, "Server error", nil)
	}
}

// decodeJSON reads the request body into dst, translating malformed or
// oversized payloads into a 400 the caller can return directly.
func (s *HTTPServer) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid JSON body", nil)
		return false
	}
	return true
}
