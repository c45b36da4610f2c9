package app

import (
	"context"
	"log"

	"github.com/piraces/feedzone/pkg/domain/feed"
	"github.com/piraces/feedzone/pkg/domain/zone"
	"github.com/pkg/errors"
)

type HandlerListWebFeeds struct {
	zone  RecordZone
	cache WebFeedListCache
}

func NewHandlerListWebFeeds(zone RecordZone, cache WebFeedListCache) *HandlerListWebFeeds {
	return &HandlerListWebFeeds{zone: zone, cache: cache}
}

// Handle lists the feeds that currently belong to container. Results are
// served from the list cache when possible; the membership operations never
// read from it.
func (h *HandlerListWebFeeds) Handle(ctx context.Context, container feed.Container) ([]feed.WebFeed, error) {
	containerID, ok := container.ExternalID()
	if !ok {
		return nil, invalidParameter("container has no external id")
	}

	if cached, ok := h.cache.Get(ctx, containerID); ok {
		return cached, nil
	}

	generation := h.cache.Generation()

	records, err := h.zone.Query(ctx, zone.NewQuery(
		zone.WebFeedRecordType,
		zone.FieldContains(zone.WebFeedContainerMembershipField, containerID),
	))
	if err != nil {
		return nil, remoteError(operationQuery, err)
	}

	webFeeds := make([]feed.WebFeed, 0, len(records))
	for _, record := range records {
		webFeed, err := webFeedFromRecord(record)
		if err != nil {
			log.Printf("[WARN] skipping web feed %s: %v", record.ExternalID, err)
			continue
		}
		webFeeds = append(webFeeds, webFeed)
	}

	if err := h.cache.Put(ctx, containerID, generation, webFeeds); err != nil {
		log.Printf("[ERROR] failure to store web feed list of %s into cache: %v", containerID, err)
	}

	return webFeeds, nil
}

func webFeedFromRecord(record zone.Record) (feed.WebFeed, error) {
	rawURL, _ := record.String(zone.WebFeedURLField)
	address, err := feed.NewAddress(rawURL)
	if err != nil {
		return feed.WebFeed{}, errors.Wrap(err, "error creating address")
	}

	var editedName *string
	if name, ok := record.String(zone.WebFeedEditedNameField); ok {
		editedName = &name
	}

	return feed.NewWebFeed(record.ExternalID, address, editedName, membershipOf(record)), nil
}
