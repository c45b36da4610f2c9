package app

import (
	"context"

	"github.com/piraces/feedzone/pkg/domain/feed"
	"github.com/piraces/feedzone/pkg/domain/zone"
)

type HandlerRenameFolder struct {
	zone RecordZone
}

func NewHandlerRenameFolder(zone RecordZone) *HandlerRenameFolder {
	return &HandlerRenameFolder{zone: zone}
}

// Handle overwrites only the name of the container record.
func (h *HandlerRenameFolder) Handle(ctx context.Context, folder feed.Container, name string) error {
	externalID, ok := folder.ExternalID()
	if !ok {
		return invalidParameter("folder has no external id")
	}

	record := zone.NewRecord(zone.ContainerRecordType, externalID)
	record.Set(zone.ContainerNameField, name)

	if _, err := h.zone.Save(ctx, record); err != nil {
		return remoteError(operationSave, err)
	}
	return nil
}
