package provider_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/entity"
	"github.com/locdesk/loc-file-service/provider"
	"github.com/locdesk/loc-file-service/test_helpers"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeBatchPartial(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()
	user := uuid.New()
	other := uuid.New()

	mine := tc.CreateFile(t, "mine.txt", user)
	deleted := tc.CreateFile(t, "deleted.txt", user)
	require.NoError(t, tc.Repository.FileRepo.SoftDelete(deleted.ID))
	foreign := tc.CreateFile(t, "foreign.txt", other)

	actor := provider.Principal{ID: user}
	result, err := tc.Gateway.AuthorizeBatch(ctx, actor, []uint64{mine.ID, deleted.ID, foreign.ID}, provider.CapabilityDownload)
	require.NoError(t, err)

	require.Len(t, result.Authorized, 1)
	require.Equal(t, mine.ID, result.Authorized[0].ID)
	require.ElementsMatch(t, []uint64{deleted.ID, foreign.ID}, result.Denied)
}

func TestAuthorizeSingleDenied(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()
	user := uuid.New()
	other := uuid.New()

	foreign := tc.CreateFile(t, "foreign.txt", other)

	_, err := tc.Gateway.AuthorizeSingle(ctx, provider.Principal{ID: user}, foreign.ID, provider.CapabilityDownload)
	require.ErrorIs(t, err, provider.ErrForbidden)

	_, err = tc.Gateway.AuthorizeSingle(ctx, provider.Principal{ID: user}, 424242, provider.CapabilityDownload)
	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestOpenStreamsBlobBytes(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()
	user := uuid.New()

	file := tc.CreateFile(t, "doc.txt", user)
	require.NoError(t, tc.Blob.Put(ctx, file.StorageKey, strings.NewReader("hello"), 5, "text/plain"))

	reader, err := tc.Gateway.Open(ctx, file)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestOpenMissingBlob(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()

	file := tc.CreateFile(t, "ghost.txt", uuid.New())

	_, err := tc.Gateway.Open(ctx, file)
	require.ErrorIs(t, err, provider.ErrStorageUnavailable)
}

func TestStreamZip(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()
	user := uuid.New()

	f1 := tc.CreateFile(t, "dup.txt", user)
	f2 := tc.CreateFile(t, "dup.txt", user)
	require.NoError(t, tc.Blob.Put(ctx, f1.StorageKey, strings.NewReader("first"), 5, "text/plain"))
	require.NoError(t, tc.Blob.Put(ctx, f2.StorageKey, strings.NewReader("second"), 6, "text/plain"))

	var buf bytes.Buffer
	require.NoError(t, tc.Gateway.StreamZip(ctx, &buf, []entity.File{*f1, *f2}))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	names := []string{zr.File[0].Name, zr.File[1].Name}
	require.Contains(t, names, "dup.txt")
	// The duplicate gets an id prefix so both entries survive.
	hasPrefixed := false
	for _, name := range names {
		if name != "dup.txt" && strings.HasSuffix(name, "_dup.txt") {
			hasPrefixed = true
		}
	}
	require.True(t, hasPrefixed)
}

func TestStreamZipEmptySet(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)

	var buf bytes.Buffer
	err := tc.Gateway.StreamZip(context.Background(), &buf, nil)
	require.ErrorIs(t, err, provider.ErrNoAccessibleFiles)
}
