package main

import (
	"context"
	"log"

	"github.com/piraces/feedzone/pkg/adapters"
	"github.com/piraces/feedzone/pkg/domain"
	"github.com/pkg/errors"
)

const (
	zoneBackendSQLite = "sqlite"
	zoneBackendRedis  = "redis"
	zoneBackendMemory = "memory"
)

type pingableZone interface {
	adapters.RecordZone
	Ping(ctx context.Context) error
}

// NewZone opens the record zone selected by ZONE_BACKEND.
func NewZone(s *Service, zoneName domain.ZoneName) (pingableZone, error) {
	switch s.ZoneBackend {
	case zoneBackendSQLite:
		s.db = InitDatabase(s)
		return adapters.NewSQLiteZone(s.db, zoneName), nil
	case zoneBackendRedis:
		log.Printf("[INFO] using redis zone backend at %s", s.RedisURL)
		return adapters.NewRedisZone(s.redisClient, zoneName), nil
	case zoneBackendMemory:
		log.Print("[WARN] using the in-memory zone backend, records are lost on restart")
		return adapters.NewMemoryZone(), nil
	default:
		return nil, errors.Errorf("unknown zone backend '%s'", s.ZoneBackend)
	}
}
