package adapters_test

import (
	"context"
	"testing"

	"github.com/piraces/feedzone/pkg/adapters"
	"github.com/piraces/feedzone/pkg/domain/zone"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	changes []zone.Change
}

func (r *recordingPublisher) PublishZoneChanged(change zone.Change) {
	r.changes = append(r.changes, change)
}

func TestPublishingZoneAnnouncesWrites(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	publishingZone := adapters.NewPublishingZone(adapters.NewMemoryZone(), publisher)

	record := zone.NewRecord(zone.ContainerRecordType, publishingZone.GenerateRecordID())
	record.Set(zone.ContainerNameField, "Tech")

	_, err := publishingZone.Save(ctx, record)
	require.NoError(t, err)
	require.NoError(t, publishingZone.Delete(ctx, record.ExternalID))

	require.Equal(t, []zone.Change{
		{ExternalID: record.ExternalID, RecordType: zone.ContainerRecordType},
		{ExternalID: record.ExternalID, RecordType: zone.ContainerRecordType, Deleted: true},
	}, publisher.changes)
}

func TestPublishingZoneAnnouncesDeletedRecordType(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	memoryZone := adapters.NewMemoryZone()
	publishingZone := adapters.NewPublishingZone(memoryZone, publisher)

	record := zone.NewRecord(zone.WebFeedRecordType, memoryZone.GenerateRecordID())
	record.Set(zone.WebFeedURLField, "https://feeds.example/rss")
	_, err := memoryZone.Save(ctx, record)
	require.NoError(t, err)

	require.NoError(t, publishingZone.Delete(ctx, record.ExternalID))
	require.Equal(t, []zone.Change{
		{ExternalID: record.ExternalID, RecordType: zone.WebFeedRecordType, Deleted: true},
	}, publisher.changes)
}

func TestPublishingZoneIgnoresReadsAndFailedWrites(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	publishingZone := adapters.NewPublishingZone(adapters.NewMemoryZone(), publisher)

	_, err := publishingZone.Save(ctx, zone.NewRecord(zone.WebFeedRecordType, ""))
	require.Error(t, err)

	_, err = publishingZone.Fetch(ctx, "missing")
	require.Error(t, err)

	_, err = publishingZone.Query(ctx, zone.NewQuery(zone.WebFeedRecordType))
	require.NoError(t, err)

	require.Empty(t, publisher.changes)
}
