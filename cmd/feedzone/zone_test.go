package main

import (
	"path/filepath"
	"testing"

	"github.com/piraces/feedzone/pkg/adapters"
	"github.com/piraces/feedzone/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZoneMemory(t *testing.T) {
	zone, err := NewZone(&Service{ZoneBackend: zoneBackendMemory}, domain.MustNewZoneName("Account"))
	require.NoError(t, err)
	assert.IsType(t, &adapters.MemoryZone{}, zone)
}

func TestNewZoneSQLite(t *testing.T) {
	s := &Service{
		ZoneBackend:       zoneBackendSQLite,
		DatabaseDirectory: filepath.Join(t.TempDir(), "db", "feedzone.sqlite"),
	}

	zone, err := NewZone(s, domain.MustNewZoneName("Account"))
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &adapters.SQLiteZone{}, zone)
	assert.NotNil(t, s.db)
}

func TestNewZoneUnknownBackend(t *testing.T) {
	_, err := NewZone(&Service{ZoneBackend: "cloud"}, domain.MustNewZoneName("Account"))
	assert.Error(t, err)
}
