package adapters

import (
	"context"
	"log"

	"github.com/piraces/feedzone/pkg/domain/zone"
	"github.com/piraces/feedzone/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type RecordZone interface {
	Save(ctx context.Context, record zone.Record) (zone.Record, error)
	Fetch(ctx context.Context, externalID string) (zone.Record, error)
	Delete(ctx context.Context, externalID string) error
	Query(ctx context.Context, query zone.Query) ([]zone.Record, error)
	GenerateRecordID() string
}

type ZoneChangedPublisher interface {
	PublishZoneChanged(change zone.Change)
}

// PublishingZone announces every successful write made through it. Failed
// writes are passed through untouched and announce nothing.
type PublishingZone struct {
	RecordZone
	publisher ZoneChangedPublisher
}

func NewPublishingZone(recordZone RecordZone, publisher ZoneChangedPublisher) *PublishingZone {
	return &PublishingZone{RecordZone: recordZone, publisher: publisher}
}

func (p *PublishingZone) Save(ctx context.Context, record zone.Record) (zone.Record, error) {
	saved, err := p.RecordZone.Save(ctx, record)
	if err != nil {
		return saved, err
	}
	p.publish(zone.Change{ExternalID: saved.ExternalID, RecordType: saved.Type})
	return saved, nil
}

// Delete reads the record type before deleting so the announced change
// carries it. A failed read only leaves the type empty.
func (p *PublishingZone) Delete(ctx context.Context, externalID string) error {
	var recordType zone.RecordType
	if existing, err := p.RecordZone.Fetch(ctx, externalID); err == nil {
		recordType = existing.Type
	} else {
		log.Printf("[DEBUG] deleting %s without a known record type: %v", externalID, err)
	}

	if err := p.RecordZone.Delete(ctx, externalID); err != nil {
		return err
	}
	p.publish(zone.Change{ExternalID: externalID, RecordType: recordType, Deleted: true})
	return nil
}

func (p *PublishingZone) publish(change zone.Change) {
	kind := "save"
	if change.Deleted {
		kind = "delete"
	}
	metrics.ZoneChanges.With(prometheus.Labels{"record_type": change.RecordType.String(), "kind": kind}).Inc()
	p.publisher.PublishZoneChanged(change)
}
