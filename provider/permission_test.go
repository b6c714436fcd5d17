package provider_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/provider"
	"github.com/locdesk/loc-file-service/test_helpers"
	"github.com/stretchr/testify/require"
)

var allCapabilities = []provider.Capability{
	provider.CapabilityView,
	provider.CapabilityDownload,
	provider.CapabilityEdit,
	provider.CapabilityDelete,
}

func TestPermissionMatrix(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()

	uploader := uuid.New()
	projectOwner := uuid.New()
	stranger := uuid.New()

	project := tc.CreateProject(t, "demo", projectOwner, time.Now())
	group := tc.CreateGroup(t, project.ID, "source", projectOwner)
	file := tc.CreateFile(t, "doc.txt", uploader)
	tc.MapFile(t, group.ID, file.ID)

	// Uploader gets everything.
	for _, cap := range allCapabilities {
		allowed, err := tc.Permission.CanAccess(ctx, provider.Principal{ID: uploader}, file, cap)
		require.NoError(t, err)
		require.True(t, allowed, "uploader should have %s", cap)
	}

	// Project owner gets read access only.
	for _, cap := range allCapabilities {
		allowed, err := tc.Permission.CanAccess(ctx, provider.Principal{ID: projectOwner}, file, cap)
		require.NoError(t, err)
		wantAllowed := cap == provider.CapabilityView || cap == provider.CapabilityDownload
		require.Equal(t, wantAllowed, allowed, "project owner %s", cap)
	}

	// Stranger gets nothing.
	for _, cap := range allCapabilities {
		allowed, err := tc.Permission.CanAccess(ctx, provider.Principal{ID: stranger}, file, cap)
		require.NoError(t, err)
		require.False(t, allowed, "stranger should not have %s", cap)
	}

	// Manager gets everything regardless of ownership.
	manager := provider.Principal{ID: uuid.New(), Role: provider.RoleManager}
	for _, cap := range allCapabilities {
		allowed, err := tc.Permission.CanAccess(ctx, manager, file, cap)
		require.NoError(t, err)
		require.True(t, allowed, "manager should have %s", cap)
	}
}

func TestExplicitGrantFlags(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()

	uploader := uuid.New()
	grantee := uuid.New()
	file := tc.CreateFile(t, "doc.txt", uploader)

	tc.CreateGrant(t, file.ID, grantee, true, true, false, false)

	actor := provider.Principal{ID: grantee}

	allowed, err := tc.Permission.CanAccess(ctx, actor, file, provider.CapabilityDownload)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = tc.Permission.CanAccess(ctx, actor, file, provider.CapabilityEdit)
	require.NoError(t, err)
	require.False(t, allowed)

	allowed, err = tc.Permission.CanAccess(ctx, actor, file, provider.CapabilityDelete)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestFalseGrantFallsThroughToProjectOwner(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()

	uploader := uuid.New()
	owner := uuid.New()

	project := tc.CreateProject(t, "demo", owner, time.Now())
	group := tc.CreateGroup(t, project.ID, "source", owner)
	file := tc.CreateFile(t, "doc.txt", uploader)
	tc.MapFile(t, group.ID, file.ID)

	// An all-false grant row must not mask the project-owner rule.
	tc.CreateGrant(t, file.ID, owner, false, false, false, false)

	allowed, err := tc.Permission.CanAccess(ctx, provider.Principal{ID: owner}, file, provider.CapabilityView)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = tc.Permission.CanAccess(ctx, provider.Principal{ID: owner}, file, provider.CapabilityDelete)
	require.NoError(t, err)
	require.False(t, allowed)
}
