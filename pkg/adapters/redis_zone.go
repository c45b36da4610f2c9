package adapters

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/piraces/feedzone/pkg/domain"
	"github.com/piraces/feedzone/pkg/domain/zone"
	"github.com/piraces/feedzone/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "feedzone"
	redisTypeField = "__type"
)

// RedisZone stores each record as a hash with one entry per attribute, so a
// save only ever touches the attributes it carries. A set per record type
// indexes the records for queries.
type RedisZone struct {
	client   *redis.Client
	zoneName domain.ZoneName
}

func NewRedisZone(client *redis.Client, zoneName domain.ZoneName) *RedisZone {
	return &RedisZone{client: client, zoneName: zoneName}
}

// NewRedisClient creates a client from a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing redis url")
	}
	return redis.NewClient(opts), nil
}

func (r *RedisZone) Save(ctx context.Context, record zone.Record) (zone.Record, error) {
	if record.ExternalID == "" {
		return zone.Record{}, errors.New("record has no external id")
	}

	values := map[string]interface{}{
		redisTypeField: record.Type.String(),
	}
	var removed []string
	for field, value := range record.Fields {
		if value == nil {
			removed = append(removed, field)
			continue
		}
		encoded, err := zone.EncodeValue(value)
		if err != nil {
			return zone.Record{}, errors.Wrapf(err, "error encoding field '%s'", field)
		}
		values[field] = encoded
	}

	key := r.recordKey(record.ExternalID)
	var saved *redis.MapStringStringCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values)
		if len(removed) > 0 {
			pipe.HDel(ctx, key, removed...)
		}
		pipe.SAdd(ctx, r.typeKey(record.Type), record.ExternalID)
		saved = pipe.HGetAll(ctx, key)
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] failure: %v", err)
		metrics.AppErrors.With(prometheus.Labels{"type": "REDIS_WRITE"}).Inc()
		return zone.Record{}, errors.Wrap(err, "error saving the record")
	}

	log.Printf("[DEBUG] saved %s record %s", record.Type, record.ExternalID)
	merged, err := decodeHash(record.ExternalID, saved.Val())
	if err != nil {
		return zone.Record{}, errors.Wrap(err, "error decoding the saved record")
	}
	return merged, nil
}

func (r *RedisZone) Fetch(ctx context.Context, externalID string) (zone.Record, error) {
	values, err := r.client.HGetAll(ctx, r.recordKey(externalID)).Result()
	if err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "REDIS_READ"}).Inc()
		return zone.Record{}, errors.Wrap(err, "error fetching the record")
	}
	if len(values) == 0 {
		return zone.Record{}, errors.Wrapf(zone.ErrRecordNotFound, "record '%s'", externalID)
	}
	return decodeHash(externalID, values)
}

func (r *RedisZone) Delete(ctx context.Context, externalID string) error {
	key := r.recordKey(externalID)

	recordType, err := r.client.HGet(ctx, key, redisTypeField).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		metrics.AppErrors.With(prometheus.Labels{"type": "REDIS_READ"}).Inc()
		return errors.Wrap(err, "error reading the record type")
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, r.typeKey(zone.RecordType(recordType)), externalID)
		return nil
	})
	if err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "REDIS_WRITE"}).Inc()
		return errors.Wrap(err, "error deleting the record")
	}

	log.Printf("[DEBUG] deleted record %s", externalID)
	return nil
}

func (r *RedisZone) Query(ctx context.Context, query zone.Query) ([]zone.Record, error) {
	externalIDs, err := r.client.SMembers(ctx, r.typeKey(query.RecordType)).Result()
	if err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "REDIS_READ"}).Inc()
		return nil, errors.Wrap(err, "error listing records")
	}
	if len(externalIDs) == 0 {
		return nil, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(externalIDs))
	for i, externalID := range externalIDs {
		cmds[i] = pipe.HGetAll(ctx, r.recordKey(externalID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "REDIS_READ"}).Inc()
		return nil, errors.Wrap(err, "error reading records")
	}

	var results []zone.Record
	for i, cmd := range cmds {
		values := cmd.Val()
		if len(values) == 0 {
			// index entry outlived its hash
			continue
		}
		record, err := decodeHash(externalIDs[i], values)
		if err != nil {
			return nil, errors.Wrapf(err, "error decoding record '%s'", externalIDs[i])
		}
		if query.Matches(record) {
			results = append(results, record)
		}
	}
	return results, nil
}

func (r *RedisZone) GenerateRecordID() string {
	return uuid.NewString()
}

func (r *RedisZone) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisZone) recordKey(externalID string) string {
	return fmt.Sprintf("%s:%s:record:%s", redisKeyPrefix, r.zoneName.String(), externalID)
}

func (r *RedisZone) typeKey(recordType zone.RecordType) string {
	return fmt.Sprintf("%s:%s:type:%s", redisKeyPrefix, r.zoneName.String(), recordType.String())
}

func decodeHash(externalID string, values map[string]string) (zone.Record, error) {
	record := zone.NewRecord(zone.RecordType(values[redisTypeField]), externalID)
	for field, encoded := range values {
		if field == redisTypeField {
			continue
		}
		value, err := zone.DecodeValue(encoded)
		if err != nil {
			return zone.Record{}, errors.Wrapf(err, "field '%s'", field)
		}
		record.Set(field, value)
	}
	return record, nil
}
