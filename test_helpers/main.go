package test_helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/config"
	"github.com/locdesk/loc-file-service/entity"
	"github.com/locdesk/loc-file-service/infra"
	"github.com/locdesk/loc-file-service/provider"
	"github.com/locdesk/loc-file-service/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestContainer wires the full service graph against an in-memory database
// and an in-memory blob store. No Redis, no RabbitMQ, no MinIO needed.
type TestContainer struct {
	DB         *gorm.DB
	Repository *repository.Repository
	Logger     *infra.LoggerClient
	Blob       *FakeBlobStore

	Registry   *provider.FileRegistry
	Permission *provider.PermissionResolver
	Groups     *provider.GroupService
	Reconciler *provider.MappingReconciler
	Gateway    *provider.AccessGateway
}

func NewTestContainer(t *testing.T) *TestContainer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.Project{},
		&entity.File{},
		&entity.FileGroup{},
		&entity.FileMapping{},
		&entity.PermissionGrant{},
	))

	repo := repository.InitRepository(db)
	logger := infra.InitLoggerClient(&config.EnvConfig{})
	blob := NewFakeBlobStore()

	registry := provider.NewFileRegistry(repo, logger)
	permission := provider.NewPermissionResolver(repo)
	groups := provider.NewGroupService(repo, permission, nil, logger)
	reconciler := provider.NewMappingReconciler(repo, nil, logger)
	gateway := provider.NewAccessGateway(registry, permission, blob, logger)

	return &TestContainer{
		DB:         db,
		Repository: repo,
		Logger:     logger,
		Blob:       blob,
		Registry:   registry,
		Permission: permission,
		Groups:     groups,
		Reconciler: reconciler,
		Gateway:    gateway,
	}
}

func (tc *TestContainer) CreateProject(t *testing.T, name string, createdBy uuid.UUID, createdAt time.Time) *entity.Project {
	t.Helper()
	project := &entity.Project{
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: createdAt,
	}
	require.NoError(t, tc.DB.Create(project).Error)
	return project
}

func (tc *TestContainer) CreateFile(t *testing.T, originalName string, uploadedBy uuid.UUID) *entity.File {
	t.Helper()
	file := &entity.File{
		StorageKey:   uuid.NewString() + "_" + originalName,
		OriginalName: originalName,
		MediaType:    "application/octet-stream",
		SizeBytes:    int64(len(originalName)),
		UploadedBy:   uploadedBy,
	}
	require.NoError(t, tc.DB.Create(file).Error)
	return file
}

func (tc *TestContainer) CreateGroup(t *testing.T, projectID uint64, category entity.FileCategory, createdBy uuid.UUID) *entity.FileGroup {
	t.Helper()
	group := &entity.FileGroup{
		ProjectID: projectID,
		Category:  category,
		CreatedBy: createdBy,
	}
	require.NoError(t, tc.DB.Create(group).Error)
	return group
}

func (tc *TestContainer) MapFile(t *testing.T, groupID, fileID uint64) {
	t.Helper()
	inserted, err := tc.Repository.FileMappingRepo.CreateIfNotExists(groupID, fileID)
	require.NoError(t, err)
	require.True(t, inserted)
}

func (tc *TestContainer) CreateGrant(t *testing.T, fileID uint64, userID uuid.UUID, view, download, edit, del bool) {
	t.Helper()
	grant := &entity.PermissionGrant{
		FileID:      fileID,
		UserID:      userID,
		CanView:     view,
		CanDownload: download,
		CanEdit:     edit,
		CanDelete:   del,
	}
	require.NoError(t, tc.DB.Create(grant).Error)
}

// FakeBlobStore keeps blobs in memory and satisfies provider.BlobStore.
type FakeBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewFakeBlobStore() *FakeBlobStore {
	return &FakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *FakeBlobStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = data
	return nil
}

func (f *FakeBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	data, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *FakeBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.blobs[key]
	return ok, nil
}

func (f *FakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, key)
	return nil
}
