package app

import (
	"context"

	"github.com/piraces/feedzone/pkg/domain/feed"
)

type HandlerMoveWebFeed struct {
	zone RecordZone
}

func NewHandlerMoveWebFeed(zone RecordZone) *HandlerMoveWebFeed {
	return &HandlerMoveWebFeed{zone: zone}
}

// Handle moves the feed between containers with a single fetch and a single
// save so no reader observes the feed detached from both.
func (h *HandlerMoveWebFeed) Handle(ctx context.Context, webFeed feed.WebFeed, from feed.Container, to feed.Container) error {
	fromID, ok := from.ExternalID()
	if !ok {
		return invalidParameter("source container has no external id")
	}
	toID, ok := to.ExternalID()
	if !ok {
		return invalidParameter("destination container has no external id")
	}
	externalID, ok := webFeed.ExternalID()
	if !ok {
		return invalidParameter("web feed has no external id")
	}

	record, err := h.zone.Fetch(ctx, externalID)
	if err != nil {
		return remoteError(operationFetch, err)
	}

	membershipOf(record).remove(fromID).insert(toID).apply(&record)

	if _, err := h.zone.Save(ctx, record); err != nil {
		return remoteError(operationSave, err)
	}
	return nil
}
