package app

import (
	"context"

	"github.com/piraces/feedzone/pkg/domain/feed"
	"github.com/piraces/feedzone/pkg/domain/zone"
)

type HandlerRenameWebFeed struct {
	zone RecordZone
}

func NewHandlerRenameWebFeed(zone RecordZone) *HandlerRenameWebFeed {
	return &HandlerRenameWebFeed{zone: zone}
}

// Handle overwrites the edited name of the feed, or clears it when editedName
// is nil. The saved record carries no other field so the store's field merge
// keeps url and membership intact.
func (h *HandlerRenameWebFeed) Handle(ctx context.Context, webFeed feed.WebFeed, editedName *string) error {
	externalID, ok := webFeed.ExternalID()
	if !ok {
		return invalidParameter("web feed has no external id")
	}

	record := zone.NewRecord(zone.WebFeedRecordType, externalID)
	if editedName != nil {
		record.Set(zone.WebFeedEditedNameField, *editedName)
	} else {
		record.Clear(zone.WebFeedEditedNameField)
	}

	if _, err := h.zone.Save(ctx, record); err != nil {
		return remoteError(operationSave, err)
	}
	return nil
}
