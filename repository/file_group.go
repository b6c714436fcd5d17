package repository

import (
	"github.com/locdesk/loc-file-service/entity"
	"gorm.io/gorm"
)

type FileGroupRepository struct {
	db *gorm.DB
}

func NewFileGroupRepository(db *gorm.DB) *FileGroupRepository {
	return &FileGroupRepository{db: db}
}

func (r *FileGroupRepository) Create(group *entity.FileGroup) error {
	return r.db.Create(group).Error
}

func (r *FileGroupRepository) FindByID(id uint64) (*entity.FileGroup, error) {
	var group entity.FileGroup
	err := r.db.Where("id = ?", id).First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *FileGroupRepository) FindByProjectID(projectID uint64) ([]entity.FileGroup, error) {
	var groups []entity.FileGroup
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// FindLatestByProjectIDAndCategory picks the reconciler's preferred target
// group: the most recently created group of the given category.
func (r *FileGroupRepository) FindLatestByProjectIDAndCategory(projectID uint64, category entity.FileCategory) (*entity.FileGroup, error) {
	var group entity.FileGroup
	err := r.db.Where("project_id = ? AND category = ?", projectID, category).
		Order("created_at DESC").First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// FindWithLegacyNames returns groups still carrying a free-text file list,
// optionally scoped to one project.
func (r *FileGroupRepository) FindWithLegacyNames(projectID *uint64) ([]entity.FileGroup, error) {
	query := r.db.Where("legacy_file_names IS NOT NULL AND legacy_file_names != ''")
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var groups []entity.FileGroup
	err := query.Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *FileGroupRepository) UpdateLegacyFileNames(id uint64, names string) error {
	return r.db.Model(&entity.FileGroup{}).Where("id = ?", id).
		Update("legacy_file_names", names).Error
}
