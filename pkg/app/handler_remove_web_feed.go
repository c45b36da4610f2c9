package app

import (
	"context"
	"log"

	"github.com/piraces/feedzone/pkg/domain/feed"
)

type HandlerRemoveWebFeed struct {
	zone RecordZone
}

func NewHandlerRemoveWebFeed(zone RecordZone) *HandlerRemoveWebFeed {
	return &HandlerRemoveWebFeed{zone: zone}
}

// Handle unlinks the feed from a container. A feed left without containers
// is deleted instead of being saved with an empty membership.
func (h *HandlerRemoveWebFeed) Handle(ctx context.Context, webFeed feed.WebFeed, from feed.Container) error {
	fromID, ok := from.ExternalID()
	if !ok {
		return invalidParameter("source container has no external id")
	}
	externalID, ok := webFeed.ExternalID()
	if !ok {
		return invalidParameter("web feed has no external id")
	}

	record, err := h.zone.Fetch(ctx, externalID)
	if err != nil {
		return remoteError(operationFetch, err)
	}

	updated := membershipOf(record).remove(fromID)
	if updated.isEmpty() {
		log.Printf("[DEBUG] web feed %s has no containers left, deleting", externalID)
		if err := h.zone.Delete(ctx, externalID); err != nil {
			return remoteError(operationDelete, err)
		}
		return nil
	}

	updated.apply(&record)
	if _, err := h.zone.Save(ctx, record); err != nil {
		return remoteError(operationSave, err)
	}
	return nil
}
