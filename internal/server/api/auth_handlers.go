package api

import (
	"net/http"

	"github.com/dkarpov/tasktrack/internal/server/models"
	"github.com/dkarpov/tasktrack/internal/server/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *models.PublicUser `json:"user"`
	Token string             `json:"token"`
}

func newAuthResponse(r *services.AuthResult) authResponse {
	return authResponse{User: r.User, Token: r.Token}
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {

	var req registerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.serviceError(w, r, err, "User not found")
		return
	}

	s.logger.Info(r.Context(), "User registered", "userID", result.User.ID)
	s.writeJSON(w, r, http.StatusCreated, newAuthResponse(result))
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {

	var req loginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.serviceError(w, r, err, "User not found")
		return
	}

	s.writeJSON(w, r, http.StatusOK, newAuthResponse(result))
}

func (s *HTTPServer) handleProfile(w http.ResponseWriter, r *http.Request) {

	user, err := s.users.Profile(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "User not found")
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]*models.PublicUser{"user": user})
}
