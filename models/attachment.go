package models

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is the metadata record for an uploaded evidence file. The
// blob itself lives in storage; intake forms reference it through
// EvidenceItem.AttachedFileName.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FileName    string    `json:"file_name"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}
