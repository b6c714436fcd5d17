package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/entity"
	"github.com/locdesk/loc-file-service/infra"
	"github.com/locdesk/loc-file-service/repository"
	"gorm.io/gorm"
)

// FileRegistry owns the catalog of uploaded objects. It records metadata
// only; the blob write must already be durable when Register is called.
type FileRegistry struct {
	repo   *repository.Repository
	logger *infra.LoggerClient
}

func NewFileRegistry(repo *repository.Repository, logger *infra.LoggerClient) *FileRegistry {
	return &FileRegistry{
		repo:   repo,
		logger: logger,
	}
}

func (p *FileRegistry) Register(ctx context.Context, storageKey, originalName, mediaType string, sizeBytes int64, uploadedBy uuid.UUID) (*entity.File, error) {
	if storageKey == "" {
		return nil, fmt.Errorf("%w: blob write was not confirmed", ErrStorageUnavailable)
	}

	file := &entity.File{
		StorageKey:   storageKey,
		OriginalName: originalName,
		MediaType:    mediaType,
		SizeBytes:    sizeBytes,
		UploadedBy:   uploadedBy,
		IsDeleted:    false,
	}
	if err := p.repo.FileRepo.Create(file); err != nil {
		return nil, fmt.Errorf("failed to register file %s: %w", originalName, err)
	}

	p.logger.InfoWithContextf(ctx, "[Registry] Registered file %d (%s, %d bytes) for user %s",
		file.ID, originalName, sizeBytes, uploadedBy)
	return file, nil
}

func (p *FileRegistry) Lookup(ctx context.Context, fileID uint64) (*entity.File, error) {
	file, err := p.repo.FileRepo.FindByID(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("file %d: %w", fileID, ErrNotFound)
		}
		return nil, err
	}
	return file, nil
}

// LookupIncludingDeleted is reserved for reconciliation and audit paths.
func (p *FileRegistry) LookupIncludingDeleted(ctx context.Context, fileID uint64) (*entity.File, error) {
	file, err := p.repo.FileRepo.FindByIDIncludingDeleted(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("file %d: %w", fileID, ErrNotFound)
		}
		return nil, err
	}
	return file, nil
}

// SoftDelete hides a file from normal operations. Idempotent: deleting an
// already-deleted file succeeds without effect, and historical mapping rows
// stay in place.
func (p *FileRegistry) SoftDelete(ctx context.Context, fileID uint64) error {
	if _, err := p.LookupIncludingDeleted(ctx, fileID); err != nil {
		return err
	}
	if err := p.repo.FileRepo.SoftDelete(fileID); err != nil {
		return fmt.Errorf("failed to soft-delete file %d: %w", fileID, err)
	}
	p.logger.InfoWithContextf(ctx, "[Registry] Soft-deleted file %d", fileID)
	return nil
}

// FindOrphans lists non-deleted files with zero group memberships, newest
// first. Used only by the reconciler.
func (p *FileRegistry) FindOrphans(ctx context.Context, uploaderID *uuid.UUID) ([]entity.File, error) {
	return p.repo.FileRepo.FindOrphans(uploaderID)
}
