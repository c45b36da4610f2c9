package app

import (
	"context"

	"github.com/piraces/feedzone/pkg/domain/feed"
	"github.com/piraces/feedzone/pkg/domain/zone"
)

type HandlerCreateWebFeed struct {
	zone RecordZone
}

func NewHandlerCreateWebFeed(zone RecordZone) *HandlerCreateWebFeed {
	return &HandlerCreateWebFeed{zone: zone}
}

// Handle persists a new feed record belonging to container and returns its
// external ID. Duplicate addresses are not rejected here.
func (h *HandlerCreateWebFeed) Handle(ctx context.Context, address feed.Address, editedName *string, container feed.Container) (string, error) {
	containerID, ok := container.ExternalID()
	if !ok {
		return "", invalidParameter("container has no external id")
	}

	record := zone.NewRecord(zone.WebFeedRecordType, h.zone.GenerateRecordID())
	record.Set(zone.WebFeedURLField, address.String())
	if editedName != nil {
		record.Set(zone.WebFeedEditedNameField, *editedName)
	}
	membership{containerID}.apply(&record)

	if _, err := h.zone.Save(ctx, record); err != nil {
		return "", remoteError(operationSave, err)
	}

	return record.ExternalID, nil
}
