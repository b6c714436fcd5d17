package entity

import (
	"time"

	"github.com/google/uuid"
)

// Project is the business record file groups attach to. Project CRUD lives in
// another service; this subsystem only reads the table to resolve ownership
// and reconciliation targets.
type Project struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(512);not null"`
	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}
