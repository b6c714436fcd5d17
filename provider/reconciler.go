package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/entity"
	"github.com/locdesk/loc-file-service/infra"
	"github.com/locdesk/loc-file-service/repository"
	"gorm.io/gorm"
)

const reconcileLockTTL = 2 * time.Minute

// MappingReconciler restores the invariant that every non-deleted file
// belongs to a group of the right project whenever that is possible. Strictly
// additive: it only inserts missing mapping rows, never deletes or rewrites
// existing ones, so repeat and concurrent runs converge.
type MappingReconciler struct {
	repo   *repository.Repository
	cache  *infra.RedisClient
	logger *infra.LoggerClient
}

// UnresolvedBucket describes a group of orphans that could not be repaired.
// Diagnostic only, never an error.
type UnresolvedBucket struct {
	UploaderID uuid.UUID `json:"uploader_id"`
	FileCount  int       `json:"file_count"`
	Reason     string    `json:"reason"`
}

// RepairedBucket records where one uploader's orphans were attached.
type RepairedBucket struct {
	UploaderID uuid.UUID `json:"uploader_id"`
	ProjectID  uint64    `json:"project_id"`
	GroupID    uint64    `json:"group_id"`
	Mapped     int       `json:"mapped"`
}

type ReconcileResult struct {
	Before     int64              `json:"before"`
	After      int64              `json:"after"`
	Fixed      int64              `json:"fixed"`
	Unresolved []UnresolvedBucket `json:"unresolved"`
	Buckets    []RepairedBucket   `json:"buckets"`
}

func NewMappingReconciler(repo *repository.Repository, cache *infra.RedisClient, logger *infra.LoggerClient) *MappingReconciler {
	return &MappingReconciler{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Run repairs missing mappings. With a project id the caller must own the
// project or be a manager, and every orphan bucket is attached to that
// project; without one each uploader's most recently created project is used.
// Buckets commit independently, so a cancelled run keeps finished buckets.
func (r *MappingReconciler) Run(ctx context.Context, projectID *uint64, actor Principal) (*ReconcileResult, error) {
	result := &ReconcileResult{
		Unresolved: []UnresolvedBucket{},
		Buckets:    []RepairedBucket{},
	}

	before, err := r.repo.FileMappingRepo.CountAll()
	if err != nil {
		return nil, err
	}
	result.Before = before

	var explicitProject *entity.Project
	if projectID != nil {
		project, err := r.repo.ProjectRepo.FindByID(*projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("project %d: %w", *projectID, ErrNotFound)
			}
			return nil, err
		}
		if actor.Role != RoleManager && project.CreatedBy != actor.ID {
			return nil, fmt.Errorf("project %d: %w", *projectID, ErrForbidden)
		}
		explicitProject = project
	}

	// Best-effort lock to avoid duplicate scans; correctness does not depend
	// on it because every insert is "if not exists".
	unlock, acquired := r.acquireLock(ctx, projectID)
	if !acquired {
		r.logger.WarningWithContextf(ctx, "[Reconcile] Another run holds the lock, skipping")
		result.After = before
		return result, nil
	}
	defer unlock()

	touchedProjects := make(map[uint64]struct{})

	if err := r.repairOrphans(ctx, explicitProject, result, touchedProjects); err != nil {
		return nil, err
	}

	if err := r.repairLegacyNames(ctx, projectID, result, touchedProjects); err != nil {
		return nil, err
	}

	after, err := r.repo.FileMappingRepo.CountAll()
	if err != nil {
		return nil, err
	}
	result.After = after

	r.invalidateListings(ctx, touchedProjects)
	r.logger.InfoWithContextf(ctx, "[Reconcile] Done: before=%d after=%d fixed=%d unresolved=%d",
		result.Before, result.After, result.Fixed, len(result.Unresolved))
	return result, nil
}

// repairOrphans partitions unmapped files by uploader and attaches each
// bucket to a target group, committing one transaction per bucket.
func (r *MappingReconciler) repairOrphans(ctx context.Context, explicitProject *entity.Project, result *ReconcileResult, touched map[uint64]struct{}) error {
	orphans, err := r.repo.FileRepo.FindOrphans(nil)
	if err != nil {
		return err
	}
	if len(orphans) == 0 {
		return nil
	}

	r.logger.InfoWithContextf(ctx, "[Reconcile] Found %d orphaned files", len(orphans))

	buckets := make(map[uuid.UUID][]entity.File)
	order := make([]uuid.UUID, 0)
	for _, file := range orphans {
		if _, seen := buckets[file.UploadedBy]; !seen {
			order = append(order, file.UploadedBy)
		}
		buckets[file.UploadedBy] = append(buckets[file.UploadedBy], file)
	}

	for _, uploaderID := range order {
		if err := ctx.Err(); err != nil {
			// Buckets already processed stay committed.
			return err
		}

		files := buckets[uploaderID]
		project := explicitProject
		if project == nil {
			project, err = r.repo.ProjectRepo.FindLatestByCreator(uploaderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					r.logger.WarningWithContextf(ctx, "[Reconcile] No project found for uploader %s, skipping %d files",
						uploaderID, len(files))
					result.Unresolved = append(result.Unresolved, UnresolvedBucket{
						UploaderID: uploaderID,
						FileCount:  len(files),
						Reason:     "no project found for uploader",
					})
					continue
				}
				return err
			}
		}

		bucket, err := r.attachBucket(ctx, project, uploaderID, files)
		if err != nil {
			return err
		}
		result.Fixed += int64(bucket.Mapped)
		result.Buckets = append(result.Buckets, *bucket)
		touched[project.ID] = struct{}{}
	}
	return nil
}

// attachBucket maps one uploader's orphans into the project's most recent
// source group, creating the group when none exists. One transaction per
// bucket keeps partial runs durable.
func (r *MappingReconciler) attachBucket(ctx context.Context, project *entity.Project, uploaderID uuid.UUID, files []entity.File) (*RepairedBucket, error) {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.OriginalName)
	}

	bucket := &RepairedBucket{
		UploaderID: uploaderID,
		ProjectID:  project.ID,
	}

	err := r.repo.Transaction(func(txRepo *repository.Repository) error {
		group, err := txRepo.FileGroupRepo.FindLatestByProjectIDAndCategory(project.ID, entity.CategorySource)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			group = &entity.FileGroup{
				ProjectID:       project.ID,
				Category:        entity.CategorySource,
				Notes:           "recovered by reconciliation",
				LegacyFileNames: strings.Join(names, ", "),
				CreatedBy:       uploaderID,
			}
			if err := txRepo.FileGroupRepo.Create(group); err != nil {
				return fmt.Errorf("failed to create group for project %d: %w", project.ID, err)
			}
			r.logger.InfoWithContextf(ctx, "[Reconcile] Created group %d for project %d", group.ID, project.ID)
		} else if appended := appendLegacyNames(group.LegacyFileNames, names); appended != group.LegacyFileNames {
			if err := txRepo.FileGroupRepo.UpdateLegacyFileNames(group.ID, appended); err != nil {
				return err
			}
		}
		bucket.GroupID = group.ID

		for _, file := range files {
			inserted, err := txRepo.FileMappingRepo.CreateIfNotExists(group.ID, file.ID)
			if err != nil {
				return fmt.Errorf("failed to map file %d into group %d: %w", file.ID, group.ID, err)
			}
			if inserted {
				bucket.Mapped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.InfoWithContextf(ctx, "[Reconcile] Attached %d files of uploader %s to group %d (project %d)",
		bucket.Mapped, uploaderID, bucket.GroupID, bucket.ProjectID)
	return bucket, nil
}

// repairLegacyNames brings forward associations recorded only as free text:
// for every group whose legacy list names files missing from its current
// members, matching non-deleted files are mapped in. All name matches are
// mapped; duplicate logical names are the caller's data-quality problem.
func (r *MappingReconciler) repairLegacyNames(ctx context.Context, projectID *uint64, result *ReconcileResult, touched map[uint64]struct{}) error {
	groups, err := r.repo.FileGroupRepo.FindWithLegacyNames(projectID)
	if err != nil {
		return err
	}

	for _, group := range groups {
		names := SplitLegacyNames(group.LegacyFileNames)
		if len(names) == 0 {
			continue
		}

		memberNames, err := r.repo.FileMappingRepo.FindMemberNames(group.ID)
		if err != nil {
			return err
		}
		present := make(map[string]struct{}, len(memberNames))
		for _, name := range memberNames {
			present[name] = struct{}{}
		}

		missing := make([]string, 0)
		for _, name := range names {
			if _, ok := present[name]; !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) == 0 {
			continue
		}

		candidates, err := r.repo.FileRepo.FindByOriginalNames(missing)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			continue
		}

		mapped := 0
		for _, file := range candidates {
			inserted, err := r.repo.FileMappingRepo.CreateIfNotExists(group.ID, file.ID)
			if err != nil {
				return err
			}
			if inserted {
				mapped++
			}
		}
		if mapped > 0 {
			result.Fixed += int64(mapped)
			touched[group.ProjectID] = struct{}{}
			r.logger.InfoWithContextf(ctx, "[Reconcile] Restored %d legacy-name mappings into group %d", mapped, group.ID)
		}
	}
	return nil
}

func (r *MappingReconciler) acquireLock(ctx context.Context, projectID *uint64) (func(), bool) {
	if r.cache == nil {
		return func() {}, true
	}

	key := "reconcile:lock:all"
	if projectID != nil {
		key = fmt.Sprintf("reconcile:lock:project:%d", *projectID)
	}

	ok, err := r.cache.SetNX(ctx, key, time.Now().Unix(), reconcileLockTTL)
	if err != nil {
		r.logger.WarningWithContextf(ctx, "[Reconcile] Lock acquire failed, proceeding without: %v", err)
		return func() {}, true
	}
	if !ok {
		return func() {}, false
	}
	return func() {
		if err := r.cache.Delete(context.WithoutCancel(ctx), key); err != nil {
			r.logger.WarningWithContextf(ctx, "[Reconcile] Lock release failed: %v", err)
		}
	}, true
}

func (r *MappingReconciler) invalidateListings(ctx context.Context, touched map[uint64]struct{}) {
	if r.cache == nil {
		return
	}
	for projectID := range touched {
		if err := r.cache.Delete(ctx, groupListingKey(projectID)); err != nil {
			r.logger.WarningWithContextf(ctx, "[Reconcile] Failed to invalidate listing cache for project %d: %v", projectID, err)
		}
	}
}

func appendLegacyNames(existing string, names []string) string {
	present := make(map[string]struct{})
	for _, name := range SplitLegacyNames(existing) {
		present[name] = struct{}{}
	}
	merged := SplitLegacyNames(existing)
	for _, name := range names {
		if _, ok := present[name]; !ok {
			merged = append(merged, name)
			present[name] = struct{}{}
		}
	}
	return strings.Join(merged, ", ")
}
