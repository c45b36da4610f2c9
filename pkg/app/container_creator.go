package app

import (
	"context"

	"github.com/piraces/feedzone/pkg/domain/zone"
)

type containerCreator struct {
	zone RecordZone
}

func (c containerCreator) create(ctx context.Context, name string, isAccount bool) (string, error) {
	record := zone.NewRecord(zone.ContainerRecordType, c.zone.GenerateRecordID())
	record.Set(zone.ContainerNameField, name)
	record.Set(zone.ContainerIsAccountField, zone.FormatBool(isAccount))

	if _, err := c.zone.Save(ctx, record); err != nil {
		return "", remoteError(operationSave, err)
	}
	return record.ExternalID, nil
}
