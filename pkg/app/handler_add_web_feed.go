package app

import (
	"context"

	"github.com/piraces/feedzone/pkg/domain/feed"
)

type HandlerAddWebFeed struct {
	zone RecordZone
}

func NewHandlerAddWebFeed(zone RecordZone) *HandlerAddWebFeed {
	return &HandlerAddWebFeed{zone: zone}
}

func (h *HandlerAddWebFeed) Handle(ctx context.Context, webFeed feed.WebFeed, to feed.Container) error {
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

	membershipOf(record).insert(toID).apply(&record)

	if _, err := h.zone.Save(ctx, record); err != nil {
		return remoteError(operationSave, err)
	}
	return nil
}
