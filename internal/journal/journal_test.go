package journal

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestJournal — хелпер для создания журнала поверх замоканной базы.
func newTestJournal(t *testing.T) (Journal, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewJournalWithDB(db), mock, db
}

func TestJournal_Record(t *testing.T) {
	j, mock, _ := newTestJournal(t)

	mock.ExpectExec("INSERT INTO session_events").
		WithArgs("alice", EventConnected, "01HZX").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := j.Record(context.Background(), "alice", EventConnected, "01HZX")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_RecordError(t *testing.T) {
	j, mock, _ := newTestJournal(t)

	mock.ExpectExec("INSERT INTO session_events").
		WithArgs("alice", EventDisconnected, "NoConnection").
		WillReturnError(sql.ErrConnDone)

	err := j.Record(context.Background(), "alice", EventDisconnected, "NoConnection")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_RecentEvents(t *testing.T) {
	j, mock, _ := newTestJournal(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "account", "event", "detail", "created_at"}).
		AddRow(7, "alice", EventDisconnected, "NoConnection", now).
		AddRow(6, "alice", EventConnected, "01HZX", now.Add(-time.Minute))

	mock.ExpectQuery("SELECT id, account, event, detail, created_at FROM session_events").
		WithArgs("alice").
		WillReturnRows(rows)

	events, err := j.RecentEvents(context.Background(), "alice", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, int64(7), events[0].ID)
	assert.Equal(t, EventDisconnected, events[0].Event)
	assert.Equal(t, int64(6), events[1].ID)
	assert.Equal(t, EventConnected, events[1].Event)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_RecentEventsEmpty(t *testing.T) {
	j, mock, _ := newTestJournal(t)

	mock.ExpectQuery("SELECT id, account, event, detail, created_at FROM session_events").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account", "event", "detail", "created_at"}))

	events, err := j.RecentEvents(context.Background(), "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_RecentEventsQueryError(t *testing.T) {
	j, mock, _ := newTestJournal(t)

	mock.ExpectQuery("SELECT id, account, event, detail, created_at FROM session_events").
		WithArgs("alice").
		WillReturnError(sql.ErrConnDone)

	_, err := j.RecentEvents(context.Background(), "alice", 10)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNopJournal(t *testing.T) {
	j := Nop()

	require.NoError(t, j.Record(context.Background(), "alice", EventConnected, ""))

	events, err := j.RecentEvents(context.Background(), "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, events)

	assert.NoError(t, j.Close())
}
