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

func newMeetingRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMeetingRepositoryReplaceAll(t *testing.T) {
	db, mock, cleanup := newMeetingRepoMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM meeting_candidates")).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM meeting_hosts")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO meeting_candidates").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO meeting_hosts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ReplaceAll(context.Background(),
		[]models.MeetingCandidate{{MeetingID: "m-001", Topic: "English 101", HostID: "h-1", StartTime: "09:00"}},
		[]models.Host{{HostID: "h-1", DisplayName: "Laura Pratt", Email: "laura@example.com"}},
	)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepositoryReplaceAllRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMeetingRepoMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM meeting_candidates")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceAll(context.Background(), nil, nil)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepositorySnapshot(t *testing.T) {
	db, mock, cleanup := newMeetingRepoMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	syncedAt := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	candidates := sqlmock.NewRows([]string{"meeting_id", "topic", "host_id", "start_time", "synced_at"}).
		AddRow("m-001", "English 101", "h-1", "09:00", syncedAt).
		AddRow("m-002", "Portuguese Basics", "h-2", "14:00", syncedAt.Add(time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT meeting_id, topic, host_id, start_time, synced_at FROM meeting_candidates ORDER BY meeting_id")).
		WillReturnRows(candidates)

	hosts := sqlmock.NewRows([]string{"host_id", "display_name", "email"}).
		AddRow("h-1", "Laura Pratt", "laura@example.com").
		AddRow("h-2", "Omar Vega", "omar@example.com")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT host_id, display_name, email FROM meeting_hosts ORDER BY host_id")).
		WillReturnRows(hosts)

	pool, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, pool.Candidates, 2)
	assert.Equal(t, "Laura Pratt", pool.HostName("h-1"))
	assert.Equal(t, "h-9", pool.HostName("h-9"), "unknown hosts fall back to the id")
	assert.Equal(t, syncedAt.Add(time.Minute), pool.SyncedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepositoryCount(t *testing.T) {
	db, mock, cleanup := newMeetingRepoMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM meeting_candidates")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
