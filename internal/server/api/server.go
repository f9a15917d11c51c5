// Package api exposes the application over HTTP/JSON. Handlers stay thin:
// they decode requests, call the services and translate errors to status
// codes. Authentication is a bearer token checked by middleware.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dkarpov/tasktrack/internal/logging"
	"github.com/dkarpov/tasktrack/internal/server/models"
	"github.com/dkarpov/tasktrack/internal/server/services"
)

const maxBodyBytes = 1 << 20

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Profile(ctx context.Context, userID string) (*models.PublicUser, error)
}

type TaskService interface {
	Create(ctx context.Context, ownerID string, p services.CreateTaskParams) (*models.Task, error)
	List(ctx context.Context, ownerID string, p services.ListTasksParams) (*services.TaskPage, error)
	Get(ctx context.Context, ownerID, taskID string) (*models.Task, error)
	Update(ctx context.Context, ownerID, taskID string, p services.UpdateTaskParams) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}

type AttachmentService interface {
	Create(ctx context.Context, ownerID, taskID, fileName string) (*models.Attachment, string, error)
	List(ctx context.Context, ownerID, taskID string) ([]*models.Attachment, error)
	Download(ctx context.Context, ownerID, taskID, attachmentID string) (*models.Attachment, string, error)
	Delete(ctx context.Context, ownerID, taskID, attachmentID string) error
}

type HTTPServer struct {
	address     string
	logger      logging.Logger
	users       UserService
	tasks       TaskService
	attachments AttachmentService
	jwtSecret   []byte
}

func NewHTTPServer(a string, l logging.Logger, us UserService, ts TaskService, as AttachmentService, secretKey string) (*HTTPServer, error) {
	return &HTTPServer{
		address:     a,
		logger:      l.With("module", "http_server"),
		users:       us,
		tasks:       ts,
		attachments: as,
		jwtSecret:   []byte(secretKey),
	}, nil
}

func (s *HTTPServer) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("GET /auth/me", s.withAuth(s.handleProfile))

	mux.Handle("POST /tasks", s.withAuth(s.handleCreateTask))
	mux.Handle("GET /tasks", s.withAuth(s.handleListTasks))
	mux.Handle("GET /tasks/{id}", s.withAuth(s.handleGetTask))
	mux.Handle("PATCH /tasks/{id}", s.withAuth(s.handleUpdateTask))
	mux.Handle("DELETE /tasks/{id}", s.withAuth(s.handleDeleteTask))

	mux.Handle("POST /tasks/{id}/attachments", s.withAuth(s.handleCreateAttachment))
	mux.Handle("GET /tasks/{id}/attachments", s.withAuth(s.handleListAttachments))
	mux.Handle("GET /tasks/{id}/attachments/{attachmentID}", s.withAuth(s.handleDownloadAttachment))
	mux.Handle("DELETE /tasks/{id}/attachments/{attachmentID}", s.withAuth(s.handleDeleteAttachment))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, "Route not found", nil)
	})

	return s.limitBody(mux)
}

// limitBody caps request bodies so a client cannot stream an unbounded payload.
func (s *HTTPServer) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
