package adapters

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/piraces/feedzone/pkg/domain"
	"github.com/piraces/feedzone/pkg/domain/zone"
	"github.com/piraces/feedzone/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// SQLiteZone stores every record of a zone as one row whose attributes are
// kept in a JSON document.
type SQLiteZone struct {
	db       *sql.DB
	zoneName domain.ZoneName
}

func NewSQLiteZone(db *sql.DB, zoneName domain.ZoneName) *SQLiteZone {
	return &SQLiteZone{db: db, zoneName: zoneName}
}

// Save merges record into the stored row inside a transaction so concurrent
// saves of disjoint fields do not overwrite each other.
func (s *SQLiteZone) Save(ctx context.Context, record zone.Record) (zone.Record, error) {
	if record.ExternalID == "" {
		return zone.Record{}, errors.New("record has no external id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "SQL_WRITE"}).Inc()
		return zone.Record{}, errors.Wrap(err, "error starting transaction")
	}
	defer tx.Rollback() // not much we can do here

	existing, err := s.fetch(ctx, tx, record.ExternalID)
	if err != nil && !errors.Is(err, zone.ErrRecordNotFound) {
		return zone.Record{}, errors.Wrap(err, "error reading the stored record")
	}

	merged := existing.Merge(record)
	encoded, err := json.Marshal(merged.Fields)
	if err != nil {
		return zone.Record{}, errors.Wrap(err, "error encoding record fields")
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO records (zone, external_id, record_type, fields, modified_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (zone, external_id) DO UPDATE SET
			record_type = excluded.record_type,
			fields = excluded.fields,
			modified_at = excluded.modified_at`,
		s.zoneName.String(),
		merged.ExternalID,
		merged.Type.String(),
		string(encoded),
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		log.Printf("[ERROR] failure: %v", err)
		metrics.AppErrors.With(prometheus.Labels{"type": "SQL_WRITE"}).Inc()
		return zone.Record{}, errors.Wrap(err, "error saving the record")
	}

	if err := tx.Commit(); err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "SQL_WRITE"}).Inc()
		return zone.Record{}, errors.Wrap(err, "error committing the record")
	}

	log.Printf("[DEBUG] saved %s record %s", merged.Type, merged.ExternalID)
	return merged, nil
}

func (s *SQLiteZone) Fetch(ctx context.Context, externalID string) (zone.Record, error) {
	return s.fetch(ctx, s.db, externalID)
}

func (s *SQLiteZone) Delete(ctx context.Context, externalID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE zone = ? AND external_id = ?`,
		s.zoneName.String(),
		externalID,
	); err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "SQL_WRITE"}).Inc()
		return errors.Wrap(err, "error deleting the record")
	}
	log.Printf("[DEBUG] deleted record %s", externalID)
	return nil
}

func (s *SQLiteZone) Query(ctx context.Context, query zone.Query) ([]zone.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT external_id, fields
		FROM records
		WHERE zone = ? AND record_type = ?`,
		s.zoneName.String(),
		query.RecordType.String(),
	)
	if err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "SQL_READ"}).Inc()
		return nil, errors.Wrap(err, "error querying records")
	}
	defer rows.Close() // not much we can do here

	var results []zone.Record
	for rows.Next() {
		var (
			tmpexternalid string
			tmpfields     string
		)

		if err := rows.Scan(&tmpexternalid, &tmpfields); err != nil {
			metrics.AppErrors.With(prometheus.Labels{"type": "SQL_SCAN"}).Inc()
			return nil, errors.Wrap(err, "error scanning the retrieved rows")
		}

		record, err := decodeRow(tmpexternalid, query.RecordType, tmpfields)
		if err != nil {
			return nil, errors.Wrapf(err, "error decoding record '%s'", tmpexternalid)
		}

		if query.Matches(record) {
			results = append(results, record)
		}
	}
	if err := rows.Err(); err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "SQL_READ"}).Inc()
		return nil, errors.Wrap(err, "error iterating the retrieved rows")
	}

	return results, nil
}

func (s *SQLiteZone) GenerateRecordID() string {
	return uuid.NewString()
}

func (s *SQLiteZone) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteZone) fetch(ctx context.Context, q queryRower, externalID string) (zone.Record, error) {
	row := q.QueryRowContext(ctx,
		`SELECT record_type, fields FROM records WHERE zone = ? AND external_id = ?`,
		s.zoneName.String(),
		externalID,
	)

	var (
		tmprecordtype string
		tmpfields     string
	)
	if err := row.Scan(&tmprecordtype, &tmpfields); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zone.Record{}, errors.Wrapf(zone.ErrRecordNotFound, "record '%s'", externalID)
		}
		metrics.AppErrors.With(prometheus.Labels{"type": "SQL_SCAN"}).Inc()
		return zone.Record{}, errors.Wrap(err, "error fetching the record")
	}

	return decodeRow(externalID, zone.RecordType(tmprecordtype), tmpfields)
}

func decodeRow(externalID string, recordType zone.RecordType, encoded string) (zone.Record, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		return zone.Record{}, errors.Wrap(err, "error decoding record fields")
	}

	fields, err := zone.NormalizeFields(raw)
	if err != nil {
		return zone.Record{}, err
	}

	return zone.Record{
		ExternalID: externalID,
		Type:       recordType,
		Fields:     fields,
	}, nil
}
