package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/test_helpers"
	"github.com/stretchr/testify/require"
)

func TestCreateIfNotExistsIdempotent(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	user := uuid.New()

	project := tc.CreateProject(t, "demo", user, time.Now())
	group := tc.CreateGroup(t, project.ID, "source", user)
	file := tc.CreateFile(t, "doc.txt", user)

	inserted, err := tc.Repository.FileMappingRepo.CreateIfNotExists(group.ID, file.ID)
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = tc.Repository.FileMappingRepo.CreateIfNotExists(group.ID, file.ID)
	require.NoError(t, err)
	require.False(t, inserted)

	count, err := tc.Repository.FileMappingRepo.CountByGroupID(group.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestFindOrphans(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	u1 := uuid.New()
	u2 := uuid.New()

	project := tc.CreateProject(t, "demo", u1, time.Now())
	group := tc.CreateGroup(t, project.ID, "source", u1)

	mapped := tc.CreateFile(t, "mapped.txt", u1)
	tc.MapFile(t, group.ID, mapped.ID)

	orphan1 := tc.CreateFile(t, "orphan1.txt", u1)
	orphan2 := tc.CreateFile(t, "orphan2.txt", u2)

	deleted := tc.CreateFile(t, "deleted.txt", u1)
	require.NoError(t, tc.Repository.FileRepo.SoftDelete(deleted.ID))

	orphans, err := tc.Repository.FileRepo.FindOrphans(nil)
	require.NoError(t, err)
	require.Len(t, orphans, 2)

	ids := []uint64{orphans[0].ID, orphans[1].ID}
	require.Contains(t, ids, orphan1.ID)
	require.Contains(t, ids, orphan2.ID)

	scoped, err := tc.Repository.FileRepo.FindOrphans(&u2)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.Equal(t, orphan2.ID, scoped[0].ID)
}

func TestSoftDeleteVisibility(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	user := uuid.New()

	project := tc.CreateProject(t, "demo", user, time.Now())
	group := tc.CreateGroup(t, project.ID, "source", user)
	file := tc.CreateFile(t, "doc.txt", user)
	tc.MapFile(t, group.ID, file.ID)

	require.NoError(t, tc.Repository.FileRepo.SoftDelete(file.ID))

	_, err := tc.Repository.FileRepo.FindByID(file.ID)
	require.Error(t, err)

	found, err := tc.Repository.FileRepo.FindByIDIncludingDeleted(file.ID)
	require.NoError(t, err)
	require.True(t, found.IsDeleted)

	// Mapping rows survive the delete but member listings hide the file.
	count, err := tc.Repository.FileMappingRepo.CountByGroupID(group.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	members, err := tc.Repository.FileMappingRepo.FindMemberFiles(group.ID)
	require.NoError(t, err)
	require.Empty(t, members)

	names, err := tc.Repository.FileMappingRepo.FindMemberNames(group.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"doc.txt"}, names)

	// Deleting again stays a no-op success.
	require.NoError(t, tc.Repository.FileRepo.SoftDelete(file.ID))
}

func TestIsFileInProjectOwnedBy(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	owner := uuid.New()
	uploader := uuid.New()
	stranger := uuid.New()

	project := tc.CreateProject(t, "demo", owner, time.Now())
	group := tc.CreateGroup(t, project.ID, "source", owner)
	file := tc.CreateFile(t, "doc.txt", uploader)
	tc.MapFile(t, group.ID, file.ID)

	owned, err := tc.Repository.FileMappingRepo.IsFileInProjectOwnedBy(file.ID, owner)
	require.NoError(t, err)
	require.True(t, owned)

	owned, err = tc.Repository.FileMappingRepo.IsFileInProjectOwnedBy(file.ID, stranger)
	require.NoError(t, err)
	require.False(t, owned)
}
