package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temperhq/taskcal/internal/model"
	"github.com/temperhq/taskcal/tests/testutil"
)

func strPtr(s string) *string { return &s }

func sampleData(userID string) ([]model.Folder, []model.List, []model.Task) {
	base := time.Date(2025, time.August, 1, 12, 0, 0, 0, time.UTC)

	folders := []model.Folder{
		{ID: "f1", Name: "Work", Color: "#ff0000", UserID: userID, CreatedAt: base},
	}
	lists := []model.List{
		{ID: "l1", Name: "Sprint", FolderID: "f1", UserID: userID, CreatedAt: base.Add(time.Minute)},
	}
	tasks := []model.Task{
		{ID: "t1", Title: "older", ListID: strPtr("l1"), UserID: userID, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "t2", Title: "newer", UserID: userID, CreatedAt: base.Add(3 * time.Minute)},
	}
	return folders, lists, tasks
}

func TestReplaceAllRoundTrip(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	folders, lists, tasks := sampleData("u1")
	require.NoError(t, c.ReplaceAll(ctx, "u1", folders, lists, tasks))

	gotFolders, gotLists, gotTasks, err := c.LoadAll(ctx, "u1")
	require.NoError(t, err)

	require.Len(t, gotFolders, 1)
	assert.Equal(t, "Work", gotFolders[0].Name)
	require.Len(t, gotLists, 1)
	assert.Equal(t, "f1", gotLists[0].FolderID)

	// tasks come back newest first
	require.Len(t, gotTasks, 2)
	assert.Equal(t, "t2", gotTasks[0].ID)
	assert.Nil(t, gotTasks[0].ListID)
	require.NotNil(t, gotTasks[1].ListID)
	assert.Equal(t, "l1", *gotTasks[1].ListID)
}

func TestReplaceAllDropsStaleRows(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	folders, lists, tasks := sampleData("u1")
	require.NoError(t, c.ReplaceAll(ctx, "u1", folders, lists, tasks))
	require.NoError(t, c.ReplaceAll(ctx, "u1", nil, nil, nil))

	gotFolders, gotLists, gotTasks, err := c.LoadAll(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, gotFolders)
	assert.Empty(t, gotLists)
	assert.Empty(t, gotTasks)
}

func TestLoadAllIsScopedToUser(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	f1, l1, t1 := sampleData("u1")
	require.NoError(t, c.ReplaceAll(ctx, "u1", f1, l1, t1))

	gotFolders, _, gotTasks, err := c.LoadAll(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, gotFolders)
	assert.Empty(t, gotTasks)
}

func TestPurgeOtherUsers(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	f1, l1, t1 := sampleData("u1")
	require.NoError(t, c.ReplaceAll(ctx, "u1", f1, l1, t1))

	require.NoError(t, c.PurgeOtherUsers(ctx, "u2"))

	gotFolders, _, _, err := c.LoadAll(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, gotFolders)
}

func TestPurgeAll(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	f1, l1, t1 := sampleData("u1")
	require.NoError(t, c.ReplaceAll(ctx, "u1", f1, l1, t1))
	require.NoError(t, c.PurgeAll(ctx))

	gotFolders, gotLists, gotTasks, err := c.LoadAll(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, gotFolders)
	assert.Empty(t, gotLists)
	assert.Empty(t, gotTasks)
}

func TestCompletedFlagSurvivesRoundTrip(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	tasks := []model.Task{
		{ID: "t1", Title: "reopened", Completed: false, UserID: "u1", CreatedAt: time.Now().UTC()},
	}
	require.NoError(t, c.ReplaceAll(ctx, "u1", nil, nil, tasks))

	_, _, got, err := c.LoadAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Completed)
}
