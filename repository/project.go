package repository

import (
	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/entity"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *entity.Project) error {
	return r.db.Create(project).Error
}

func (r *ProjectRepository) FindByID(id uint64) (*entity.Project, error) {
	var project entity.Project
	err := r.db.Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindLatestByCreator returns the user's most recently created project, the
// reconciler's fallback target when no project id was supplied.
func (r *ProjectRepository) FindLatestByCreator(userID uuid.UUID) (*entity.Project, error) {
	var project entity.Project
	err := r.db.Where("created_by = ?", userID).
		Order("created_at DESC").First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}
