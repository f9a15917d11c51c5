package api

import (
	"net/http"

	"github.com/dkarpov/tasktrack/internal/server/models"
)

type createAttachmentRequest struct {
	FileName string `json:"fileName"`
}

type attachmentResponse struct {
	Attachment *models.Attachment `json:"attachment"`
	URL        string             `json:"url,omitempty"`
}

func (s *HTTPServer) handleCreateAttachment(w http.ResponseWriter, r *http.Request) {

	taskID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req createAttachmentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	attachment, url, err := s.attachments.Create(r.Context(), userIDFromContext(r.Context()), taskID, req.FileName)
	if err != nil {
		s.serviceError(w, r, err, "Task not found")
		return
	}

	s.writeJSON(w, r, http.StatusCreated, attachmentResponse{Attachment: attachment, URL: url})
}

func (s *HTTPServer) handleListAttachments(w http.ResponseWriter, r *http.Request) {

	taskID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	attachments, err := s.attachments.List(r.Context(), userIDFromContext(r.Context()), taskID)
	if err != nil {
		s.serviceError(w, r, err, "Task not found")
		return
	}

	if attachments == nil {
		attachments = []*models.Attachment{}
	}

	s.writeJSON(w, r, http.StatusOK, map[string][]*models.Attachment{"attachments": attachments})
}

func (s *HTTPServer) handleDownloadAttachment(w http.ResponseWriter, r *http.Request) {

	taskID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	attachmentID, ok := s.pathUUID(w, r, "attachmentID")
	if !ok {
		return
	}

	attachment, url, err := s.attachments.Download(r.Context(), userIDFromContext(r.Context()), taskID, attachmentID)
	if err != nil {
		s.serviceError(w, r, err, "Attachment not found")
		return
	}

	s.writeJSON(w, r, http.StatusOK, attachmentResponse{Attachment: attachment, URL: url})
}

func (s *HTTPServer) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {

	taskID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	attachmentID, ok := s.pathUUID(w, r, "attachmentID")
	if !ok {
		return
	}

	if err := s.attachments.Delete(r.Context(), userIDFromContext(r.Context()), taskID, attachmentID); err != nil {
		s.serviceError(w, r, err, "Attachment not found")
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]string{"message": "Attachment deleted"})
}
