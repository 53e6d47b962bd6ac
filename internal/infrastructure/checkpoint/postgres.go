package checkpoint

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/errors"
)

// PostgresStore keeps one row per (topic, subscription). Saves are
// monotonic: a stale cursor never overwrites a newer one.
type PostgresStore struct {
	db    *sql.DB
	table string
}

func NewPostgresStore(dsn, table string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.WrapStorageError(err, "failed to open postgres connection")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.WrapStorageError(err, "failed to ping postgres")
	}
	return NewPostgresStoreWithDB(db, table), nil
}

// NewPostgresStoreWithDB wraps an existing connection (tests use sqlmock).
func NewPostgresStoreWithDB(db *sql.DB, table string) *PostgresStore {
	if table == "" {
		table = "relay_checkpoints"
	}
	return &PostgresStore{
		db:    db,
		table: table,
	}
}

// Init creates the checkpoint table if it does not exist.
func (s *PostgresStore) Init(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			topic_id      TEXT        NOT NULL,
			subscription  TEXT        NOT NULL,
			last_sequence BIGINT      NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (topic_id, subscription)
		)
	`, s.table)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return errors.WrapStorageError(err, "failed to create checkpoint table")
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, topicID model.TopicID, subscription string) (model.Checkpoint, bool, error) {
	query := fmt.Sprintf(`
		SELECT last_sequence, updated_at
		FROM %s
		WHERE topic_id = $1 AND subscription = $2
	`, s.table)

	cp := model.Checkpoint{
		TopicID:      topicID,
		Subscription: subscription,
	}
	err := s.db.QueryRowContext(ctx, query, topicID.String(), subscription).
		Scan(&cp.LastSequence, &cp.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Checkpoint{}, false, nil
	}
	if err != nil {
		return model.Checkpoint{}, false, errors.WrapStorageError(err, "failed to load checkpoint")
	}
	return cp, true, nil
}

func (s *PostgresStore) Save(ctx context.Context, checkpoint model.Checkpoint) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (topic_id, subscription, last_sequence, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (topic_id, subscription) DO UPDATE
		SET last_sequence = GREATEST(%s.last_sequence, EXCLUDED.last_sequence),
		    updated_at = EXCLUDED.updated_at
	`, s.table, s.table)

	_, err := s.db.ExecContext(ctx, query,
		checkpoint.TopicID.String(),
		checkpoint.Subscription,
		int64(checkpoint.LastSequence),
		checkpoint.UpdatedAt,
	)
	if err != nil {
		return errors.WrapStorageError(err, "failed to save checkpoint")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

var _ port.CheckpointStore = (*PostgresStore)(nil)
