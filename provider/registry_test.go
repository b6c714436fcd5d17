package provider_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/provider"
	"github.com/locdesk/loc-file-service/test_helpers"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()
	user := uuid.New()

	file, err := tc.Registry.Register(ctx, "key_report.pdf", "report.pdf", "application/pdf", 1024, user)
	require.NoError(t, err)
	require.NotZero(t, file.ID)

	found, err := tc.Registry.Lookup(ctx, file.ID)
	require.NoError(t, err)
	require.Equal(t, "report.pdf", found.OriginalName)
	require.Equal(t, user, found.UploadedBy)
	require.False(t, found.IsDeleted)
}

func TestRegisterRequiresStorageKey(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)

	_, err := tc.Registry.Register(context.Background(), "", "report.pdf", "application/pdf", 1024, uuid.New())
	require.ErrorIs(t, err, provider.ErrStorageUnavailable)
}

func TestSoftDeleteIdempotent(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()

	file := tc.CreateFile(t, "doc.txt", uuid.New())

	require.NoError(t, tc.Registry.SoftDelete(ctx, file.ID))
	require.NoError(t, tc.Registry.SoftDelete(ctx, file.ID))

	_, err := tc.Registry.Lookup(ctx, file.ID)
	require.ErrorIs(t, err, provider.ErrNotFound)

	found, err := tc.Registry.LookupIncludingDeleted(ctx, file.ID)
	require.NoError(t, err)
	require.True(t, found.IsDeleted)

	require.ErrorIs(t, tc.Registry.SoftDelete(ctx, 999999), provider.ErrNotFound)
}
