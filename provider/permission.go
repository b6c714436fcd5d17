package provider

import (
	"context"
	"errors"

	"github.com/locdesk/loc-file-service/entity"
	"github.com/locdesk/loc-file-service/repository"
	"gorm.io/gorm"
)

// PermissionResolver decides whether a principal may exercise a capability on
// a file. Rules are evaluated in order, first match wins:
//
//  1. manager role: everything
//  2. uploader: everything
//  3. explicit grant with the matching flag set
//  4. owner of a project the file is mapped into: view/download only
//  5. deny
type PermissionResolver struct {
	repo *repository.Repository
}

func NewPermissionResolver(repo *repository.Repository) *PermissionResolver {
	return &PermissionResolver{repo: repo}
}

func (p *PermissionResolver) CanAccess(ctx context.Context, principal Principal, file *entity.File, capability Capability) (bool, error) {
	if principal.Role == RoleManager {
		return true, nil
	}

	if file.UploadedBy == principal.ID {
		return true, nil
	}

	grant, err := p.repo.PermissionGrantRepo.FindByFileAndUser(file.ID, principal.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if grant != nil && grantAllows(grant, capability) {
		return true, nil
	}

	// Owning the containing project grants read access transitively, never
	// destructive capability.
	if capability == CapabilityView || capability == CapabilityDownload {
		owned, err := p.repo.FileMappingRepo.IsFileInProjectOwnedBy(file.ID, principal.ID)
		if err != nil {
			return false, err
		}
		if owned {
			return true, nil
		}
	}

	return false, nil
}

func grantAllows(grant *entity.PermissionGrant, capability Capability) bool {
	switch capability {
	case CapabilityView:
		return grant.CanView
	case CapabilityDownload:
		return grant.CanDownload
	case CapabilityEdit:
		return grant.CanEdit
	case CapabilityDelete:
		return grant.CanDelete
	default:
		return false
	}
}
