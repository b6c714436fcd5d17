package entity

import (
	"time"

	"github.com/google/uuid"
)

// PermissionGrant is an explicit per-file capability grant for one user.
// Absence of a row means "no explicit grant" and access falls through to the
// default rules.
type PermissionGrant struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	FileID      uint64    `json:"file_id" gorm:"not null;uniqueIndex:idx_file_user"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_file_user"`
	CanView     bool      `json:"can_view" gorm:"not null;default:false"`
	CanDownload bool      `json:"can_download" gorm:"not null;default:false"`
	CanEdit     bool      `json:"can_edit" gorm:"not null;default:false"`
	CanDelete   bool      `json:"can_delete" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}
