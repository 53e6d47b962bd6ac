package checkpoint

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStoreWithDB(db, "relay_checkpoints"), mock
}

func TestPostgresInit(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS relay_checkpoints").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Init(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoad(t *testing.T) {
	store, mock := newMockStore(t)
	updated := time.Now()

	mock.ExpectQuery("SELECT last_sequence, updated_at").
		WithArgs("0.0.1001", "dispatcher").
		WillReturnRows(sqlmock.NewRows([]string{"last_sequence", "updated_at"}).
			AddRow(int64(42), updated))

	cp, found, err := store.Load(context.Background(), model.TopicID("0.0.1001"), "dispatcher")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(42), cp.LastSequence)
	assert.Equal(t, model.TopicID("0.0.1001"), cp.TopicID)
	assert.Equal(t, "dispatcher", cp.Subscription)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoadMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT last_sequence, updated_at").
		WithArgs("0.0.1001", "dispatcher").
		WillReturnError(sql.ErrNoRows)

	_, found, err := store.Load(context.Background(), model.TopicID("0.0.1001"), "dispatcher")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPostgresSave(t *testing.T) {
	store, mock := newMockStore(t)
	updated := time.Now()

	mock.ExpectExec("INSERT INTO relay_checkpoints").
		WithArgs("0.0.1001", "dispatcher", int64(7), updated).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Save(context.Background(), model.Checkpoint{
		TopicID:      "0.0.1001",
		Subscription: "dispatcher",
		LastSequence: 7,
		UpdatedAt:    updated,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryStoreMonotonic(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, model.Checkpoint{TopicID: "0.0.1", Subscription: "s", LastSequence: 10}))
	// A stale save must not move the cursor backwards.
	require.NoError(t, store.Save(ctx, model.Checkpoint{TopicID: "0.0.1", Subscription: "s", LastSequence: 4}))

	cp, found, err := store.Load(ctx, "0.0.1", "s")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(10), cp.LastSequence)
}

func TestMemoryStoreIsolatesSubscriptions(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, model.Checkpoint{TopicID: "0.0.1", Subscription: "a", LastSequence: 3}))

	_, found, err := store.Load(ctx, "0.0.1", "b")
	require.NoError(t, err)
	assert.False(t, found)
}
