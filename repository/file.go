package repository

import (
	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/entity"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(file *entity.File) error {
	return r.db.Create(file).Error
}

// FindByID resolves a file visible to normal operations; soft-deleted rows
// behave as absent.
func (r *FileRepository) FindByID(id uint64) (*entity.File, error) {
	var file entity.File
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// FindByIDIncludingDeleted is the audit/reconciliation path.
func (r *FileRepository) FindByIDIncludingDeleted(id uint64) (*entity.File, error) {
	var file entity.File
	err := r.db.Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) FindByIDs(ids []uint64) ([]entity.File, error) {
	var files []entity.File
	err := r.db.Where("id IN ? AND is_deleted = ?", ids, false).Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepository) FindByOriginalNames(names []string) ([]entity.File, error) {
	var files []entity.File
	err := r.db.Where("original_name IN ? AND is_deleted = ?", names, false).Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// SoftDelete marks a file invisible. Deleting an already-deleted file is a
// no-op success; existing mapping rows are left untouched.
func (r *FileRepository) SoftDelete(id uint64) error {
	return r.db.Model(&entity.File{}).Where("id = ?", id).
		Update("is_deleted", true).Error
}

// FindOrphans returns non-deleted files with zero mapping rows, newest first,
// optionally filtered by uploader.
func (r *FileRepository) FindOrphans(uploaderID *uuid.UUID) ([]entity.File, error) {
	query := r.db.Model(&entity.File{}).
		Joins("LEFT JOIN file_mappings ON file_mappings.file_id = files.id").
		Where("file_mappings.id IS NULL AND files.is_deleted = ?", false)

	if uploaderID != nil {
		query = query.Where("files.uploaded_by = ?", *uploaderID)
	}

	var files []entity.File
	err := query.Order("files.uploaded_at DESC").Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}
