package repository

import (
	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/entity"
	"gorm.io/gorm"
)

type PermissionGrantRepository struct {
	db *gorm.DB
}

func NewPermissionGrantRepository(db *gorm.DB) *PermissionGrantRepository {
	return &PermissionGrantRepository{db: db}
}

func (r *PermissionGrantRepository) Create(grant *entity.PermissionGrant) error {
	return r.db.Create(grant).Error
}

func (r *PermissionGrantRepository) FindByFileAndUser(fileID uint64, userID uuid.UUID) (*entity.PermissionGrant, error) {
	var grant entity.PermissionGrant
	err := r.db.Where("file_id = ? AND user_id = ?", fileID, userID).First(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}
