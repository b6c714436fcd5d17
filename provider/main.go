package provider

import (
	"github.com/locdesk/loc-file-service/infra"
	"github.com/locdesk/loc-file-service/repository"
)

type Provider struct {
	Registry   *FileRegistry
	Permission *PermissionResolver
	Groups     *GroupService
	Reconciler *MappingReconciler
	Gateway    *AccessGateway
}

func InitProvider(infra *infra.Infra, repo *repository.Repository) *Provider {
	registry := NewFileRegistry(repo, infra.Logger)
	permission := NewPermissionResolver(repo)
	groups := NewGroupService(repo, permission, infra.Redis, infra.Logger)
	reconciler := NewMappingReconciler(repo, infra.Redis, infra.Logger)
	gateway := NewAccessGateway(registry, permission, infra.Minio, infra.Logger)

	return &Provider{
		Registry:   registry,
		Permission: permission,
		Groups:     groups,
		Reconciler: reconciler,
		Gateway:    gateway,
	}
}
