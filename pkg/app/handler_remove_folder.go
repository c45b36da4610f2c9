package app

import (
	"context"

	"github.com/piraces/feedzone/pkg/domain/feed"
)

type HandlerRemoveFolder struct {
	zone RecordZone
}

func NewHandlerRemoveFolder(zone RecordZone) *HandlerRemoveFolder {
	return &HandlerRemoveFolder{zone: zone}
}

// Handle deletes the container record. Feeds that still reference the folder
// are left untouched; see HandlerRemoveFolderCascade.
func (h *HandlerRemoveFolder) Handle(ctx context.Context, folder feed.Container) error {
	externalID, ok := folder.ExternalID()
	if !ok {
		return invalidParameter("folder has no external id")
	}

	if err := h.zone.Delete(ctx, externalID); err != nil {
		return remoteError(operationDelete, err)
	}
	return nil
}
