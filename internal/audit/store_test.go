package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilStoreIsNoop(t *testing.T) {
	var store *Store

	assert.NoError(t, store.Record(context.Background(), "u1", "login", "", ""))
	events, err := store.Recent(context.Background(), 10)
	assert.NoError(t, err)
	assert.Nil(t, events)
	assert.NoError(t, store.Close())
}

func TestOpenEmptyDSN(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestRecordInsertsEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO audit_events").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "u1", "shift_edit", "s1/day5", "code=A home=A persisted=true").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewStore(db)
	err = store.Record(context.Background(), "u1", "shift_edit", "s1/day5", "code=A home=A persisted=true")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentQueriesNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "at", "actor", "action", "target", "detail"}).
		AddRow("e2", now, "u1", "logout", "", "").
		AddRow("e1", now.Add(-time.Minute), "u1", "login", "", "")

	mock.ExpectQuery("SELECT id, at, actor, action, target, detail").
		WithArgs(10).
		WillReturnRows(rows)

	store := NewStore(db)
	events, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e2", events[0].ID)
	assert.Equal(t, "logout", events[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentDefaultLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, at, actor, action, target, detail").
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "at", "actor", "action", "target", "detail"}))

	store := NewStore(db)
	_, err = store.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
