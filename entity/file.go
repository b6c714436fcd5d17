package entity

import (
	"time"

	"github.com/google/uuid"
)

// File is a registered upload. The row only carries metadata; bytes live in
// the blob store under StorageKey. Rows are never physically removed here,
// deletion just flips IsDeleted.
type File struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	StorageKey   string    `json:"storage_key" gorm:"type:varchar(1024);not null;uniqueIndex"`
	OriginalName string    `json:"original_name" gorm:"type:varchar(512);not null;index"`
	MediaType    string    `json:"media_type" gorm:"type:varchar(255)"`
	SizeBytes    int64     `json:"size_bytes" gorm:"not null"`
	UploadedBy   uuid.UUID `json:"uploaded_by" gorm:"type:uuid;not null;index"`
	UploadedAt   time.Time `json:"uploaded_at" gorm:"not null;autoCreateTime"`
	IsDeleted    bool      `json:"is_deleted" gorm:"not null;default:false"`
}
