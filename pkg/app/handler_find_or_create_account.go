package app

import (
	"context"
	"log"

	"github.com/piraces/feedzone/pkg/domain/feed"
	"github.com/piraces/feedzone/pkg/domain/zone"
)

type HandlerFindOrCreateAccount struct {
	zone    RecordZone
	creator containerCreator
}

func NewHandlerFindOrCreateAccount(zone RecordZone) *HandlerFindOrCreateAccount {
	return &HandlerFindOrCreateAccount{zone: zone, creator: containerCreator{zone: zone}}
}

// Handle returns the external ID of the account container, creating it the
// first time it is needed. Two concurrent first calls can both create one;
// the zone is expected to hold a single account container and the first
// match is used.
func (h *HandlerFindOrCreateAccount) Handle(ctx context.Context) (string, error) {
	query := zone.NewQuery(
		zone.ContainerRecordType,
		zone.FieldEquals(zone.ContainerIsAccountField, zone.FormatBool(true)),
	)

	records, err := h.zone.Query(ctx, query)
	if err != nil {
		log.Printf("[INFO] account container query failed, creating a new one: %v", err)
	} else if len(records) > 0 {
		return records[0].ExternalID, nil
	}

	return h.creator.create(ctx, feed.AccountName, true)
}
