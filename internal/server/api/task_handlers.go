package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dkarpov/tasktrack/internal/server/models"
	"github.com/dkarpov/tasktrack/internal/server/services"
	"github.com/google/uuid"
)

// nullableTime keeps "field absent", "field: null" and "field: value" apart,
// which plain *time.Time cannot. A malformed value is flagged instead of
// failing the whole decode so it can surface as a field-level detail.
type nullableTime struct {
	Set     bool
	Invalid bool
	Value   *time.Time
}

func (n *nullableTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		n.Invalid = true
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		n.Invalid = true
		return nil
	}
	n.Value = &t
	return nil
}

// optionalString keeps "field absent" apart from "field: null". Unlike the
// due date, these fields have no null meaning, so an explicit null is a
// field-level validation failure instead of a silent skip.
type optionalString struct {
	Set   bool
	Null  bool
	Value string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

func (o optionalString) ptr() *string {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

type taskRequest struct {
	Title       optionalString `json:"title"`
	Description optionalString `json:"description"`
	Status      optionalString `json:"status"`
	DueDate     nullableTime   `json:"dueDate"`
}

func (req *taskRequest) nullFields() map[string]string {
	fields := map[string]optionalString{
		"title":       req.Title,
		"description": req.Description,
		"status":      req.Status,
	}
	var details map[string]string
	for name, f := range fields {
		if f.Null {
			if details == nil {
				details = make(map[string]string)
			}
			details[name] = "must not be null"
		}
	}
	return details
}

func (req *taskRequest) statusPtr() *models.Status {
	if !req.Status.Set || req.Status.Null {
		return nil
	}
	st := models.Status(req.Status.Value)
	return &st
}

type taskResponse struct {
	Task *models.Task `json:"task"`
}

type taskPageResponse struct {
	Tasks []*models.Task    `json:"tasks"`
	Meta  services.ListMeta `json:"meta"`
}

// pathUUID validates the {id}-style path value so a garbage id turns into a
// clean 400 instead of reaching the database.
func (s *HTTPServer) pathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if _, err := uuid.Parse(id); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid ID format", nil)
		return "", false
	}
	return id, true
}

func (s *HTTPServer) badDueDate(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusBadRequest, "Validation error",
		map[string]string{"dueDate": "must be a valid RFC 3339 timestamp or null"})
}

func (s *HTTPServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {

	var req taskRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if details := req.nullFields(); details != nil {
		s.writeError(w, r, http.StatusBadRequest, "Validation error", details)
		return
	}
	if req.DueDate.Invalid {
		s.badDueDate(w, r)
		return
	}

	task, err := s.tasks.Create(r.Context(), userIDFromContext(r.Context()), services.CreateTaskParams{
		Title:       req.Title.Value,
		Description: req.Description.ptr(),
		Status:      req.statusPtr(),
		DueDate:     req.DueDate.Value,
	})
	if err != nil {
		s.serviceError(w, r, err, "Task not found")
		return
	}

	s.writeJSON(w, r, http.StatusCreated, taskResponse{Task: task})
}

func (s *HTTPServer) handleListTasks(w http.ResponseWriter, r *http.Request) {

	q := r.URL.Query()

	page := 1
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		page = v
	}
	limit := 10
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		limit = v
	}

	result, err := s.tasks.List(r.Context(), userIDFromContext(r.Context()), services.ListTasksParams{
		Status: q.Get("status"),
		Page:   page,
		Limit:  limit,
		Sort:   q.Get("sort"),
	})
	if err != nil {
		s.serviceError(w, r, err, "Task not found")
		return
	}

	tasks := result.Tasks
	if tasks == nil {
		tasks = []*models.Task{}
	}

	s.writeJSON(w, r, http.StatusOK, taskPageResponse{Tasks: tasks, Meta: result.Meta})
}

func (s *HTTPServer) handleGetTask(w http.ResponseWriter, r *http.Request) {

	taskID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := s.tasks.Get(r.Context(), userIDFromContext(r.Context()), taskID)
	if err != nil {
		s.serviceError(w, r, err, "Task not found")
		return
	}

	s.writeJSON(w, r, http.StatusOK, taskResponse{Task: task})
}

func (s *HTTPServer) handleUpdateTask(w http.ResponseWriter, r *http.Request) {

	taskID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req taskRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if details := req.nullFields(); details != nil {
		s.writeError(w, r, http.StatusBadRequest, "Validation error", details)
		return
	}
	if req.DueDate.Invalid {
		s.badDueDate(w, r)
		return
	}

	task, err := s.tasks.Update(r.Context(), userIDFromContext(r.Context()), taskID, services.UpdateTaskParams{
		Title:       req.Title.ptr(),
		Description: req.Description.ptr(),
		Status:      req.statusPtr(),
		DueDate:     req.DueDate.Value,
		DueDateSet:  req.DueDate.Set,
	})
	if err != nil {
		s.serviceError(w, r, err, "Task not found")
		return
	}

	s.writeJSON(w, r, http.StatusOK, taskResponse{Task: task})
}

func (s *HTTPServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {

	taskID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.tasks.Delete(r.Context(), userIDFromContext(r.Context()), taskID); err != nil {
		s.serviceError(w, r, err, "Task not found")
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]string{"message": "Task deleted"})
}
