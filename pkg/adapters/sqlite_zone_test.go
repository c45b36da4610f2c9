package adapters_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/piraces/feedzone/pkg/adapters"
	"github.com/piraces/feedzone/pkg/domain/zone"
	"github.com/stretchr/testify/assert"
)

var fetchRows = []string{"record_type", "fields"}

func TestSQLiteZoneFetchReadError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT record_type, fields FROM records").
		WithArgs("Account", "feed-1").
		WillReturnError(errors.New("disk I/O error"))

	_, err = adapters.NewSQLiteZone(db, testZoneName).Fetch(context.Background(), "feed-1")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, zone.ErrRecordNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteZoneFetchDecodesStoredRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(fetchRows)
	rows.AddRow("WebFeed", `{"url":"https://feeds.example/rss","containerMembership":["c-1"]}`)
	mock.ExpectQuery("SELECT record_type, fields FROM records").
		WithArgs("Account", "feed-1").
		WillReturnRows(rows)

	record, err := adapters.NewSQLiteZone(db, testZoneName).Fetch(context.Background(), "feed-1")
	assert.NoError(t, err)
	assert.Equal(t, zone.WebFeedRecordType, record.Type)
	membership, ok := record.Strings(zone.WebFeedContainerMembershipField)
	assert.True(t, ok)
	assert.Equal(t, []string{"c-1"}, membership)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteZoneSaveWriteError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT record_type, fields FROM records").
		WithArgs("Account", "feed-1").
		WillReturnRows(sqlmock.NewRows(fetchRows))
	mock.ExpectExec("INSERT INTO records").WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	record := zone.NewRecord(zone.WebFeedRecordType, "feed-1")
	record.Set(zone.WebFeedURLField, "https://feeds.example/rss")

	_, err = adapters.NewSQLiteZone(db, testZoneName).Save(context.Background(), record)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteZoneSaveRejectsRecordWithoutID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	_, err = adapters.NewSQLiteZone(db, testZoneName).Save(context.Background(), zone.NewRecord(zone.WebFeedRecordType, ""))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteZoneDeleteError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM records").
		WithArgs("Account", "feed-1").
		WillReturnError(errors.New("database is locked"))

	err = adapters.NewSQLiteZone(db, testZoneName).Delete(context.Background(), "feed-1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteZoneQueryCorruptedFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"external_id", "fields"})
	rows.AddRow("feed-1", "not json")
	mock.ExpectQuery("SELECT external_id, fields").
		WithArgs("Account", "WebFeed").
		WillReturnRows(rows)

	_, err = adapters.NewSQLiteZone(db, testZoneName).Query(context.Background(), zone.NewQuery(zone.WebFeedRecordType))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
