package entity

import (
	"time"

	"github.com/google/uuid"
)

// FileCategory classifies what a group of files is for.
type FileCategory string

const (
	CategorySource      FileCategory = "source"
	CategoryTranslation FileCategory = "translation"
	CategoryLQA         FileCategory = "lqa"
	CategoryOther       FileCategory = "other"
)

// FileGroup is a named bundle of files scoped to exactly one project.
//
// LegacyFileNames is a comma-joined list of original file names kept for
// backward compatibility with pre-mapping data. New code never resolves
// membership through it; only the reconciler reads it to migrate old rows,
// and writes it on groups it creates for audit parity.
type FileGroup struct {
	ID              uint64       `json:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID       uint64       `json:"project_id" gorm:"not null;index"`
	Category        FileCategory `json:"category" gorm:"type:varchar(32);not null;default:'source'"`
	Notes           string       `json:"notes" gorm:"type:text"`
	LegacyFileNames string       `json:"legacy_file_names,omitempty" gorm:"type:text"`
	CreatedBy       uuid.UUID    `json:"created_by" gorm:"type:uuid;not null;index"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null;autoCreateTime"`

	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

// FileMapping is the membership edge between a File and a FileGroup.
// The unique index makes "insert if not exists" race-safe.
type FileMapping struct {
	ID      uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	GroupID uint64 `json:"group_id" gorm:"not null;uniqueIndex:idx_group_file"`
	FileID  uint64 `json:"file_id" gorm:"not null;uniqueIndex:idx_group_file;index"`

	Group *FileGroup `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	File  *File      `json:"file,omitempty" gorm:"foreignKey:FileID"`
}
