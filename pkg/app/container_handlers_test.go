package app_test

import (
	"context"
	"testing"

	"github.com/piraces/feedzone/pkg/app"
	"github.com/piraces/feedzone/pkg/domain/feed"
	"github.com/piraces/feedzone/pkg/domain/zone"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateAccountIsStable(t *testing.T) {
	f := newTestFixture()
	ctx := context.Background()

	first, err := f.app.FindOrCreateAccount.Handle(ctx)
	require.NoError(t, err)
	second, err := f.app.FindOrCreateAccount.Handle(ctx)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, f.zone.callCount("save"))

	record, err := f.zone.zone.Fetch(ctx, first)
	require.NoError(t, err)
	require.Equal(t, zone.ContainerRecordType, record.Type)
	name, _ := record.String(zone.ContainerNameField)
	require.Equal(t, feed.AccountName, name)
	isAccount, _ := record.String(zone.ContainerIsAccountField)
	require.Equal(t, "true", isAccount)
}

func TestFindOrCreateAccountIgnoresFolders(t *testing.T) {
	f := newTestFixture()
	folder := f.createFolder(t, "Tech")

	id, err := f.app.FindOrCreateAccount.Handle(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, containerID(folder), id)
}

func TestFindOrCreateAccountCreatesWhenQueryFails(t *testing.T) {
	f := newTestFixture()
	f.zone.fail("query", errors.New("zone not found"))

	id, err := f.app.FindOrCreateAccount.Handle(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, 1, f.zone.callCount("save"))
}

func TestFindOrCreateAccountReportsSaveFailure(t *testing.T) {
	f := newTestFixture()
	f.zone.fail("save", errors.New("quota exceeded"))

	_, err := f.app.FindOrCreateAccount.Handle(context.Background())
	var remoteOperationErr *app.RemoteOperationError
	require.True(t, errors.As(err, &remoteOperationErr))
	require.Equal(t, "save", remoteOperationErr.Operation)
}

func TestCreateFolder(t *testing.T) {
	f := newTestFixture()

	folder := f.createFolder(t, "Tech")

	record, err := f.zone.zone.Fetch(context.Background(), containerID(folder))
	require.NoError(t, err)
	name, _ := record.String(zone.ContainerNameField)
	require.Equal(t, "Tech", name)
	isAccount, _ := record.String(zone.ContainerIsAccountField)
	require.Equal(t, "false", isAccount)
}

func TestRenameFolderChangesOnlyName(t *testing.T) {
	f := newTestFixture()
	folder := f.createFolder(t, "Tech")

	require.NoError(t, f.app.RenameFolder.Handle(context.Background(), folder, "Science"))

	record, err := f.zone.zone.Fetch(context.Background(), containerID(folder))
	require.NoError(t, err)
	name, _ := record.String(zone.ContainerNameField)
	require.Equal(t, "Science", name)
	isAccount, _ := record.String(zone.ContainerIsAccountField)
	require.Equal(t, "false", isAccount)
}

func TestRemoveFolderLeavesFeedsUntouched(t *testing.T) {
	f := newTestFixture()
	folder := f.createFolder(t, "Tech")
	webFeed := f.createWebFeed(t, folder)

	require.NoError(t, f.app.RemoveFolder.Handle(context.Background(), folder))

	_, err := f.zone.zone.Fetch(context.Background(), containerID(folder))
	require.True(t, errors.Is(err, zone.ErrRecordNotFound))
	require.Equal(t, []string{containerID(folder)}, f.membership(t, webFeed))
}

func TestFolderOperationsRequireSavedFolder(t *testing.T) {
	f := newTestFixture()
	unsaved := feed.NewFolder("", "Unsaved")

	require.True(t, errors.Is(f.app.RenameFolder.Handle(context.Background(), unsaved, "Name"), app.ErrInvalidParameter))
	require.True(t, errors.Is(f.app.RemoveFolder.Handle(context.Background(), unsaved), app.ErrInvalidParameter))
	require.True(t, errors.Is(f.app.RemoveFolderCascade.Handle(context.Background(), unsaved), app.ErrInvalidParameter))
	require.Equal(t, 0, f.zone.totalCalls())
}

func TestRemoveFolderCascade(t *testing.T) {
	f := newTestFixture()
	ctx := context.Background()
	folder := f.createFolder(t, "Tech")
	other := f.createFolder(t, "Other")

	onlyInFolder := f.createWebFeed(t, folder)
	shared := f.createWebFeed(t, folder, other)
	elsewhere := f.createWebFeed(t, other)

	require.NoError(t, f.app.RemoveFolderCascade.Handle(ctx, folder))

	_, err := f.zone.zone.Fetch(ctx, containerID(folder))
	require.True(t, errors.Is(err, zone.ErrRecordNotFound))

	onlyInFolderID, _ := onlyInFolder.ExternalID()
	_, err = f.zone.zone.Fetch(ctx, onlyInFolderID)
	require.True(t, errors.Is(err, zone.ErrRecordNotFound))

	require.Equal(t, []string{containerID(other)}, f.membership(t, shared))
	require.Equal(t, []string{containerID(other)}, f.membership(t, elsewhere))
}

func TestRemoveFolderCascadeKeepsFolderOnFailure(t *testing.T) {
	f := newTestFixture()
	ctx := context.Background()
	folder := f.createFolder(t, "Tech")
	other := f.createFolder(t, "Other")
	f.createWebFeed(t, folder, other)

	f.zone.fail("save", errors.New("quota exceeded"))

	require.Error(t, f.app.RemoveFolderCascade.Handle(ctx, folder))
	_, err := f.zone.zone.Fetch(ctx, containerID(folder))
	require.NoError(t, err)
	require.Equal(t, 0, f.zone.callCount("delete"))
}

func TestSweepOrphanedFeeds(t *testing.T) {
	f := newTestFixture()
	ctx := context.Background()
	folder := f.createFolder(t, "Tech")
	kept := f.createWebFeed(t, folder)

	for _, id := range []string{"orphan-1", "orphan-2"} {
		record := zone.NewRecord(zone.WebFeedRecordType, id)
		record.Set(zone.WebFeedURLField, sampleFeedURL)
		record.Set(zone.WebFeedContainerMembershipField, []string{})
		_, err := f.zone.zone.Save(ctx, record)
		require.NoError(t, err)
	}

	deleted, err := f.app.SweepOrphanedFeeds.Handle(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, deleted)

	records, err := f.zone.zone.Query(ctx, zone.NewQuery(zone.WebFeedRecordType))
	require.NoError(t, err)
	require.Len(t, records, 1)
	keptID, _ := kept.ExternalID()
	require.Equal(t, keptID, records[0].ExternalID)
}

func TestSweepOrphanedFeedsReportsFailures(t *testing.T) {
	f := newTestFixture()
	ctx := context.Background()

	record := zone.NewRecord(zone.WebFeedRecordType, "orphan")
	record.Set(zone.WebFeedURLField, sampleFeedURL)
	_, err := f.zone.zone.Save(ctx, record)
	require.NoError(t, err)

	f.zone.fail("delete", errors.New("quota exceeded"))

	deleted, err := f.app.SweepOrphanedFeeds.Handle(ctx)
	require.Error(t, err)
	require.Equal(t, 0, deleted)
}
