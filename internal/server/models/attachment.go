package models

import "time"

// Attachment describes server-side metadata for a binary payload associated
// with a task. The content itself lives in object storage and is reached
// through presigned URLs.
type Attachment struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"taskId"`
	FileName   string    `json:"fileName"`
	StorageKey string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}
