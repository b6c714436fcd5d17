package repository

import (
	"gorm.io/gorm"
)

type Repository struct {
	FileRepo            *FileRepository
	FileGroupRepo       *FileGroupRepository
	FileMappingRepo     *FileMappingRepository
	PermissionGrantRepo *PermissionGrantRepository
	ProjectRepo         *ProjectRepository

	db *gorm.DB
}

func InitRepository(db *gorm.DB) *Repository {
	return &Repository{
		FileRepo:            NewFileRepository(db),
		FileGroupRepo:       NewFileGroupRepository(db),
		FileMappingRepo:     NewFileMappingRepository(db),
		PermissionGrantRepo: NewPermissionGrantRepository(db),
		ProjectRepo:         NewProjectRepository(db),
		db:                  db,
	}
}

// Transaction runs fn against a Repository bound to one transaction;
// fn returning an error rolls everything back.
func (r *Repository) Transaction(fn func(txRepo *Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTransaction(tx))
	})
}

func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return &Repository{
		FileRepo:            NewFileRepository(tx),
		FileGroupRepo:       NewFileGroupRepository(tx),
		FileMappingRepo:     NewFileMappingRepository(tx),
		PermissionGrantRepo: NewPermissionGrantRepository(tx),
		ProjectRepo:         NewProjectRepository(tx),
		db:                  tx,
	}
}
