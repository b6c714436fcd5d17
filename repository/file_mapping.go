package repository

import (
	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FileMappingRepository struct {
	db *gorm.DB
}

func NewFileMappingRepository(db *gorm.DB) *FileMappingRepository {
	return &FileMappingRepository{db: db}
}

// CreateIfNotExists inserts the (group, file) edge unless it already exists.
// Relies on the unique index, so concurrent inserts of the same pair converge
// to one row. Returns whether a row was actually inserted.
func (r *FileMappingRepository) CreateIfNotExists(groupID, fileID uint64) (bool, error) {
	mapping := entity.FileMapping{
		GroupID: groupID,
		FileID:  fileID,
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "file_id"}},
		DoNothing: true,
	}).Create(&mapping)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *FileMappingRepository) FindByGroupID(groupID uint64) ([]entity.FileMapping, error) {
	var mappings []entity.FileMapping
	err := r.db.Where("group_id = ?", groupID).Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

// FindMemberFiles resolves a group's member files through the mapping table,
// excluding soft-deleted files.
func (r *FileMappingRepository) FindMemberFiles(groupID uint64) ([]entity.File, error) {
	var files []entity.File
	err := r.db.Model(&entity.File{}).
		Joins("JOIN file_mappings ON file_mappings.file_id = files.id").
		Where("file_mappings.group_id = ? AND files.is_deleted = ?", groupID, false).
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// FindMemberNames returns the original names of every file mapped into the
// group, deleted or not; the legacy-name pass compares against all of them.
func (r *FileMappingRepository) FindMemberNames(groupID uint64) ([]string, error) {
	var names []string
	err := r.db.Model(&entity.File{}).
		Joins("JOIN file_mappings ON file_mappings.file_id = files.id").
		Where("file_mappings.group_id = ?", groupID).
		Pluck("files.original_name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *FileMappingRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&entity.FileMapping{}).Count(&count).Error
	return count, err
}

func (r *FileMappingRepository) CountByGroupID(groupID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&entity.FileMapping{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}

// IsFileInProjectOwnedBy reports whether the file is mapped into any group of
// a project created by the given user.
func (r *FileMappingRepository) IsFileInProjectOwnedBy(fileID uint64, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&entity.FileMapping{}).
		Joins("JOIN file_groups ON file_groups.id = file_mappings.group_id").
		Joins("JOIN projects ON projects.id = file_groups.project_id").
		Where("file_mappings.file_id = ? AND projects.created_by = ?", fileID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
