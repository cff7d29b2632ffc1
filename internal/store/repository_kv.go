package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/furkeep/pawsync/internal/logger"
)

type sqliteKVRepository struct {
	*DB
	logger *logger.Logger
}

// NewSQLiteKeyValue returns a [KeyValue] backed by the kv table of the local
// SQLite database. The table is created by the goose migrations in the root
// migrations package.
func NewSQLiteKeyValue(db *DB, log *logger.Logger) KeyValue {
	return &sqliteKVRepository{DB: db, logger: log}
}

func (r *sqliteKVRepository) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("value").
		From("kv").
		Where(sq.Eq{"bucket": bucket, "key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value []byte
	row := r.DB.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		log.Err(err).
			Str("func", "sqliteKVRepository.Get").
			Str("bucket", bucket).
			Str("key", key).
			Msg("failed to scan kv row")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return value, nil
}

func (r *sqliteKVRepository) Set(ctx context.Context, bucket, key string, value []byte) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Insert("kv").
		Columns("bucket", "key", "value", "updated_at").
		Values(bucket, key, value, time.Now().UTC()).
		Suffix("ON CONFLICT(bucket, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "sqliteKVRepository.Set").
			Str("bucket", bucket).
			Str("key", key).
			Msg("failed to execute upsert for kv row")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *sqliteKVRepository) Delete(ctx context.Context, bucket, key string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Delete("kv").
		Where(sq.Eq{"bucket": bucket, "key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "sqliteKVRepository.Delete").
			Str("bucket", bucket).
			Str("key", key).
			Msg("failed to execute delete for kv row")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *sqliteKVRepository) Keys(ctx context.Context, bucket string) ([]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("key").
		From("kv").
		Where(sq.Eq{"bucket": bucket}).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteKVRepository.Keys").
			Str("bucket", bucket).
			Msg("failed to query kv keys")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err = rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		keys = append(keys, key)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kv rows: %w", err)
	}

	return keys, nil
}
