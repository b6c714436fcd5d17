package provider

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/locdesk/loc-file-service/entity"
	"github.com/locdesk/loc-file-service/infra"
)

// BlobStore is the narrow byte-storage capability the gateway streams
// through. infra.MinioClient implements it in production.
type BlobStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// AccessGateway composes registry lookup and permission resolution for every
// entry point that touches raw bytes.
type AccessGateway struct {
	registry *FileRegistry
	resolver *PermissionResolver
	blob     BlobStore
	logger   *infra.LoggerClient
}

// BatchResult carries the authorized subset of a batch plus the ids that were
// denied or missing. Partial authorization is not an error.
type BatchResult struct {
	Authorized []entity.File `json:"authorized"`
	Denied     []uint64      `json:"denied"`
}

func NewAccessGateway(registry *FileRegistry, resolver *PermissionResolver, blob BlobStore, logger *infra.LoggerClient) *AccessGateway {
	return &AccessGateway{
		registry: registry,
		resolver: resolver,
		blob:     blob,
		logger:   logger,
	}
}

func (g *AccessGateway) AuthorizeSingle(ctx context.Context, principal Principal, fileID uint64, capability Capability) (*entity.File, error) {
	file, err := g.registry.Lookup(ctx, fileID)
	if err != nil {
		return nil, err
	}

	allowed, err := g.resolver.CanAccess(ctx, principal, file, capability)
	if err != nil {
		return nil, err
	}
	if !allowed {
		g.logger.WarningWithContextf(ctx, "[Gateway] User %s denied %s on file %d", principal.ID, capability, fileID)
		return nil, fmt.Errorf("file %d: %w", fileID, ErrForbidden)
	}
	return file, nil
}

// AuthorizeBatch checks every id independently; missing, soft-deleted and
// denied ids land in Denied and never block the rest.
func (g *AccessGateway) AuthorizeBatch(ctx context.Context, principal Principal, fileIDs []uint64, capability Capability) (*BatchResult, error) {
	result := &BatchResult{
		Authorized: []entity.File{},
		Denied:     []uint64{},
	}

	for _, id := range fileIDs {
		file, err := g.AuthorizeSingle(ctx, principal, id, capability)
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
				result.Denied = append(result.Denied, id)
				continue
			}
			return nil, err
		}
		result.Authorized = append(result.Authorized, *file)
	}
	return result, nil
}

// Open streams one authorized file's bytes from the blob store.
func (g *AccessGateway) Open(ctx context.Context, file *entity.File) (io.ReadCloser, error) {
	reader, err := g.blob.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return reader, nil
}

// StreamZip writes the files as a zip archive. Duplicate original names get
// an id prefix so entries stay unique.
func (g *AccessGateway) StreamZip(ctx context.Context, w io.Writer, files []entity.File) error {
	if len(files) == 0 {
		return ErrNoAccessibleFiles
	}

	zw := zip.NewWriter(w)
	seen := make(map[string]struct{}, len(files))

	for _, file := range files {
		name := file.OriginalName
		if _, dup := seen[name]; dup {
			name = fmt.Sprintf("%d_%s", file.ID, name)
		}
		seen[name] = struct{}{}

		entry, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create zip entry %s: %w", name, err)
		}

		reader, err := g.blob.Get(ctx, file.StorageKey)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		_, err = io.Copy(entry, reader)
		reader.Close()
		if err != nil {
			return fmt.Errorf("failed to write zip entry %s: %w", name, err)
		}
	}

	return zw.Close()
}
