package adapters

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/piraces/feedzone/pkg/domain/zone"
	"github.com/pkg/errors"
)

// MemoryZone keeps records in process. It is used when no remote backend is
// configured and in tests.
type MemoryZone struct {
	records     map[string]zone.Record
	recordsLock sync.RWMutex
}

func NewMemoryZone() *MemoryZone {
	return &MemoryZone{
		records: make(map[string]zone.Record),
	}
}

func (m *MemoryZone) Save(_ context.Context, record zone.Record) (zone.Record, error) {
	if record.ExternalID == "" {
		return zone.Record{}, errors.New("record has no external id")
	}

	m.recordsLock.Lock()
	defer m.recordsLock.Unlock()

	merged := m.records[record.ExternalID].Merge(record)
	m.records[record.ExternalID] = copyRecord(merged)
	return merged, nil
}

func (m *MemoryZone) Fetch(_ context.Context, externalID string) (zone.Record, error) {
	m.recordsLock.RLock()
	defer m.recordsLock.RUnlock()

	record, ok := m.records[externalID]
	if !ok {
		return zone.Record{}, errors.Wrapf(zone.ErrRecordNotFound, "record '%s'", externalID)
	}
	return copyRecord(record), nil
}

func (m *MemoryZone) Delete(_ context.Context, externalID string) error {
	m.recordsLock.Lock()
	defer m.recordsLock.Unlock()

	delete(m.records, externalID)
	return nil
}

func (m *MemoryZone) Query(_ context.Context, query zone.Query) ([]zone.Record, error) {
	m.recordsLock.RLock()
	defer m.recordsLock.RUnlock()

	var results []zone.Record
	for _, record := range m.records {
		if query.Matches(record) {
			results = append(results, copyRecord(record))
		}
	}
	return results, nil
}

func (m *MemoryZone) GenerateRecordID() string {
	return uuid.NewString()
}

func (m *MemoryZone) Ping(_ context.Context) error {
	return nil
}

func copyRecord(record zone.Record) zone.Record {
	out := zone.NewRecord(record.Type, record.ExternalID)
	for k, v := range record.Fields {
		if list, ok := v.([]string); ok {
			v = append(list[:0:0], list...)
		}
		out.Fields[k] = v
	}
	return out
}
