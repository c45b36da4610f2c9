package app

import (
	"context"
	"log"

	"github.com/piraces/feedzone/pkg/domain/zone"
	"github.com/pkg/errors"
)

type HandlerSweepOrphanedFeeds struct {
	numWorkers int
	zone       RecordZone
}

func NewHandlerSweepOrphanedFeeds(numWorkers int, zone RecordZone) *HandlerSweepOrphanedFeeds {
	return &HandlerSweepOrphanedFeeds{numWorkers: numWorkers, zone: zone}
}

// Handle deletes feed records that belong to no container. Such records are
// never written by this service but can be left behind by other clients.
func (h *HandlerSweepOrphanedFeeds) Handle(ctx context.Context) (int, error) {
	records, err := h.zone.Query(ctx, zone.NewQuery(zone.WebFeedRecordType))
	if err != nil {
		return 0, remoteError(operationQuery, err)
	}

	var orphans []string
	for _, record := range records {
		if membershipOf(record).isEmpty() {
			orphans = append(orphans, record.ExternalID)
		}
	}

	deleted, err := forEachRecord(ctx, h.numWorkers, orphans, func(ctx context.Context, externalID string) error {
		if err := h.zone.Delete(ctx, externalID); err != nil {
			return remoteError(operationDelete, err)
		}
		return nil
	})

	log.Printf("sweeping orphaned web feeds result deleted=%d orphans=%d", deleted, len(orphans))

	if err != nil {
		return deleted, errors.Wrap(err, "error deleting orphaned web feeds")
	}
	return deleted, nil
}
