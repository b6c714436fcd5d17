package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/locdesk/loc-file-service/entity"
	"github.com/locdesk/loc-file-service/infra"
	"github.com/locdesk/loc-file-service/repository"
	"gorm.io/gorm"
)

const groupCacheTTL = 30 * time.Second

// GroupService creates and reads file groups and their memberships.
type GroupService struct {
	repo     *repository.Repository
	resolver *PermissionResolver
	cache    *infra.RedisClient
	logger   *infra.LoggerClient
}

// GroupWithMembers pairs a group with its resolved member files.
type GroupWithMembers struct {
	Group   entity.FileGroup `json:"group"`
	Members []entity.File    `json:"members"`
}

func NewGroupService(repo *repository.Repository, resolver *PermissionResolver, cache *infra.RedisClient, logger *infra.LoggerClient) *GroupService {
	return &GroupService{
		repo:     repo,
		resolver: resolver,
		cache:    cache,
		logger:   logger,
	}
}

// CreateGroup validates that every file id resolves to a non-deleted file the
// actor uploaded or may edit, then creates the group and its mapping rows in
// one transaction. All-or-nothing: a single unresolvable id aborts the whole
// call with ErrFilesNotFound.
func (s *GroupService) CreateGroup(ctx context.Context, projectID uint64, category entity.FileCategory, notes string, fileIDs []uint64, actor Principal) (*entity.FileGroup, error) {
	if _, err := s.repo.ProjectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}
		return nil, err
	}

	files, err := s.repo.FileRepo.FindByIDs(fileIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint64]*entity.File, len(files))
	for i := range files {
		byID[files[i].ID] = &files[i]
	}

	for _, id := range fileIDs {
		file, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("file %d: %w", id, ErrFilesNotFound)
		}
		if file.UploadedBy == actor.ID {
			continue
		}
		allowed, err := s.resolver.CanAccess(ctx, actor, file, CapabilityEdit)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("file %d: %w", id, ErrFilesNotFound)
		}
	}

	group := &entity.FileGroup{
		ProjectID: projectID,
		Category:  category,
		Notes:     notes,
		CreatedBy: actor.ID,
	}

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := txRepo.FileGroupRepo.Create(group); err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		for _, id := range fileIDs {
			if _, err := txRepo.FileMappingRepo.CreateIfNotExists(group.ID, id); err != nil {
				return fmt.Errorf("failed to map file %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, projectID)
	s.logger.InfoWithContextf(ctx, "[Group] Created group %d (project %d, category %s) with %d files",
		group.ID, projectID, category, len(fileIDs))
	return group, nil
}

// ListGroups resolves every group of the project with its member files. A
// group with zero mapped members but a legacy name list gets its members
// resolved by exact original-name match; that fallback is read-only, the
// reconciler is what persists the missing rows.
func (s *GroupService) ListGroups(ctx context.Context, projectID uint64) ([]GroupWithMembers, error) {
	cacheKey := groupListingKey(projectID)
	if s.cache != nil {
		var cached []GroupWithMembers
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	if _, err := s.repo.ProjectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}
		return nil, err
	}

	groups, err := s.repo.FileGroupRepo.FindByProjectID(projectID)
	if err != nil {
		return nil, err
	}

	result := make([]GroupWithMembers, 0, len(groups))
	for _, group := range groups {
		members, err := s.repo.FileMappingRepo.FindMemberFiles(group.ID)
		if err != nil {
			return nil, err
		}

		if len(members) == 0 && group.LegacyFileNames != "" {
			names := SplitLegacyNames(group.LegacyFileNames)
			if len(names) > 0 {
				members, err = s.repo.FileRepo.FindByOriginalNames(names)
				if err != nil {
					return nil, err
				}
				s.logger.WarningWithContextf(ctx, "[Group] Group %d resolved %d members via legacy names; needs reconciliation",
					group.ID, len(members))
			}
		}

		result = append(result, GroupWithMembers{Group: group, Members: members})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, groupCacheTTL); err != nil {
			s.logger.WarningWithContextf(ctx, "[Group] Failed to cache listing for project %d: %v", projectID, err)
		}
	}
	return result, nil
}

func (s *GroupService) invalidateListing(ctx context.Context, projectID uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, groupListingKey(projectID)); err != nil {
		s.logger.WarningWithContextf(ctx, "[Group] Failed to invalidate listing cache for project %d: %v", projectID, err)
	}
}

func groupListingKey(projectID uint64) string {
	return fmt.Sprintf("filegroups:project:%d", projectID)
}

// SplitLegacyNames parses a comma-joined legacy file name list, dropping
// empty segments.
func SplitLegacyNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
