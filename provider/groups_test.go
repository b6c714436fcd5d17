package provider_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/entity"
	"github.com/locdesk/loc-file-service/provider"
	"github.com/locdesk/loc-file-service/test_helpers"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupAllOrNothing(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()
	user := uuid.New()
	actor := provider.Principal{ID: user}

	project := tc.CreateProject(t, "demo", user, time.Now())
	f1 := tc.CreateFile(t, "a.txt", user)
	f2 := tc.CreateFile(t, "b.txt", user)

	// One id does not resolve, the whole request must fail.
	_, err := tc.Groups.CreateGroup(ctx, project.ID, entity.CategorySource, "", []uint64{f1.ID, f2.ID, 99999}, actor)
	require.ErrorIs(t, err, provider.ErrFilesNotFound)

	var groupCount int64
	require.NoError(t, tc.DB.Model(&entity.FileGroup{}).Count(&groupCount).Error)
	require.Zero(t, groupCount)

	mappings, err := tc.Repository.FileMappingRepo.CountAll()
	require.NoError(t, err)
	require.Zero(t, mappings)

	// Same call without the bad id succeeds.
	group, err := tc.Groups.CreateGroup(ctx, project.ID, entity.CategorySource, "initial drop", []uint64{f1.ID, f2.ID}, actor)
	require.NoError(t, err)
	require.Equal(t, project.ID, group.ProjectID)

	count, err := tc.Repository.FileMappingRepo.CountByGroupID(group.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestCreateGroupRejectsForeignFiles(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()
	user := uuid.New()
	other := uuid.New()
	actor := provider.Principal{ID: user}

	project := tc.CreateProject(t, "demo", user, time.Now())
	own := tc.CreateFile(t, "own.txt", user)
	foreign := tc.CreateFile(t, "foreign.txt", other)

	_, err := tc.Groups.CreateGroup(ctx, project.ID, entity.CategorySource, "", []uint64{own.ID, foreign.ID}, actor)
	require.ErrorIs(t, err, provider.ErrFilesNotFound)

	// An edit grant on the foreign file makes it usable.
	tc.CreateGrant(t, foreign.ID, user, false, false, true, false)

	group, err := tc.Groups.CreateGroup(ctx, project.ID, entity.CategorySource, "", []uint64{own.ID, foreign.ID}, actor)
	require.NoError(t, err)

	count, err := tc.Repository.FileMappingRepo.CountByGroupID(group.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestCreateGroupRejectsDeletedFiles(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()
	user := uuid.New()
	actor := provider.Principal{ID: user}

	project := tc.CreateProject(t, "demo", user, time.Now())
	file := tc.CreateFile(t, "gone.txt", user)
	require.NoError(t, tc.Repository.FileRepo.SoftDelete(file.ID))

	_, err := tc.Groups.CreateGroup(ctx, project.ID, entity.CategorySource, "", []uint64{file.ID}, actor)
	require.ErrorIs(t, err, provider.ErrFilesNotFound)
}

func TestCreateGroupUnknownProject(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()
	user := uuid.New()

	file := tc.CreateFile(t, "a.txt", user)

	_, err := tc.Groups.CreateGroup(ctx, 4242, entity.CategorySource, "", []uint64{file.ID}, provider.Principal{ID: user})
	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestListGroupsLegacyNameFallback(t *testing.T) {
	tc := test_helpers.NewTestContainer(t)
	ctx := context.Background()
	user := uuid.New()

	project := tc.CreateProject(t, "demo", user, time.Now())

	group := &entity.FileGroup{
		ProjectID:       project.ID,
		Category:        entity.CategorySource,
		LegacyFileNames: "A.docx, B.docx",
		CreatedBy:       user,
	}
	require.NoError(t, tc.DB.Create(group).Error)

	fa := tc.CreateFile(t, "A.docx", user)
	fb := tc.CreateFile(t, "B.docx", user)
	tc.CreateFile(t, "C.docx", user)

	listed, err := tc.Groups.ListGroups(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Members, 2)

	memberIDs := []uint64{listed[0].Members[0].ID, listed[0].Members[1].ID}
	require.Contains(t, memberIDs, fa.ID)
	require.Contains(t, memberIDs, fb.ID)

	// The fallback is read-only; no mapping rows appear until reconciliation.
	count, err := tc.Repository.FileMappingRepo.CountAll()
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestSplitLegacyNames(t *testing.T) {
	require.Equal(t, []string{"A.docx", "B.docx"}, provider.SplitLegacyNames("A.docx, B.docx"))
	require.Equal(t, []string{"one"}, provider.SplitLegacyNames(" one ,, "))
	require.Empty(t, provider.SplitLegacyNames(""))
}
