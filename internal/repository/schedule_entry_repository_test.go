package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byhelaman/minerva-api/internal/models"
)

func newEntryRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleEntryRepositoryBulkUpsert(t *testing.T) {
	db, mock, cleanup := newEntryRepoMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	entries := []models.ScheduleEntry{
		{Date: "2026-03-02", StartTime: "09:00", EndTime: "10:30", Branch: "central", Instructor: "Garcia", Program: "English 101", Shift: "morning", Minutes: 90, Units: 1.5},
		{Date: "2026-03-02", StartTime: "11:00", EndTime: "12:00", Branch: "central", Instructor: "Moreno", Program: "Portuguese Basics", Shift: "morning", Minutes: 60, Units: 1},
	}

	mock.ExpectBegin()
	for range entries {
		mock.ExpectExec("INSERT INTO schedule_entries").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	count, err := repo.BulkUpsert(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NotEmpty(t, entries[0].Key, "keys are derived during the upsert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryBulkUpsertEmpty(t *testing.T) {
	db, mock, cleanup := newEntryRepoMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	count, err := repo.BulkUpsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newEntryRepoMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	rows := sqlmock.NewRows([]string{"entry_key", "entry_date", "start_time", "end_time", "branch", "instructor", "program", "shift", "minutes", "units", "created_at"}).
		AddRow("abc123", "2026-03-02", "09:00", "10:30", "central", "Garcia", "English 101", "morning", 90, 1.5, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT entry_key, entry_date, start_time, end_time, branch, instructor, program, shift, minutes, units, created_at FROM schedule_entries ORDER BY entry_date, start_time, entry_key")).
		WillReturnRows(rows)

	entries, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc123", entries[0].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newEntryRepoMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	rows := sqlmock.NewRows([]string{"entry_key", "entry_date", "start_time", "end_time", "branch", "instructor", "program", "shift", "minutes", "units", "created_at"}).
		AddRow("abc123", "2026-03-02", "09:00", "10:30", "central", "Garcia", "English 101", "morning", 90, 1.5, time.Now())
	mock.ExpectQuery("SELECT entry_key, .+ FROM schedule_entries WHERE 1=1 AND entry_date = \\$1 AND LOWER\\(instructor\\) LIKE \\$2").
		WithArgs("2026-03-02", "%garcia%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedule_entries WHERE 1=1")).
		WithArgs("2026-03-02", "%garcia%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	entries, total, err := repo.List(context.Background(), models.EntryFilter{Date: "2026-03-02", Instructor: "Garcia"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryDeleteAll(t *testing.T) {
	db, mock, cleanup := newEntryRepoMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_entries")).
		WillReturnResult(sqlmock.NewResult(0, 7))

	removed, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
