package app

import (
	"context"
	"log"

	"github.com/piraces/feedzone/pkg/domain/feed"
	"github.com/piraces/feedzone/pkg/domain/zone"
	"github.com/pkg/errors"
)

type HandlerRemoveFolderCascade struct {
	numWorkers    int
	zone          RecordZone
	removeWebFeed *HandlerRemoveWebFeed
	removeFolder  *HandlerRemoveFolder
}

func NewHandlerRemoveFolderCascade(
	numWorkers int,
	zone RecordZone,
	removeWebFeed *HandlerRemoveWebFeed,
	removeFolder *HandlerRemoveFolder,
) *HandlerRemoveFolderCascade {
	return &HandlerRemoveFolderCascade{
		numWorkers:    numWorkers,
		zone:          zone,
		removeWebFeed: removeWebFeed,
		removeFolder:  removeFolder,
	}
}

// Handle unlinks every feed from the folder and then deletes the folder.
// The folder record is kept when any feed could not be reconciled so the
// removal can be retried.
func (h *HandlerRemoveFolderCascade) Handle(ctx context.Context, folder feed.Container) error {
	folderID, ok := folder.ExternalID()
	if !ok {
		return invalidParameter("folder has no external id")
	}

	records, err := h.zone.Query(ctx, zone.NewQuery(
		zone.WebFeedRecordType,
		zone.FieldContains(zone.WebFeedContainerMembershipField, folderID),
	))
	if err != nil {
		return remoteError(operationQuery, err)
	}

	externalIDs := make([]string, 0, len(records))
	for _, record := range records {
		externalIDs = append(externalIDs, record.ExternalID)
	}

	removed, err := forEachRecord(ctx, h.numWorkers, externalIDs, func(ctx context.Context, externalID string) error {
		return h.removeWebFeed.Handle(ctx, feed.NewWebFeedHandle(externalID), folder)
	})
	log.Printf("[DEBUG] unlinked %d/%d web feeds from folder %s", removed, len(externalIDs), folderID)
	if err != nil {
		return errors.Wrap(err, "error unlinking web feeds from folder")
	}

	return h.removeFolder.Handle(ctx, folder)
}
