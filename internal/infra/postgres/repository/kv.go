package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/prophets-duas-bot/internal/infra/postgres"
	"github.com/aliskhannn/prophets-duas-bot/internal/preferences"
)

const kvTable = "preferences_kv"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// KVRepository stores preference documents in the preferences_kv table.
type KVRepository struct {
	db postgres.DBTX
	tr Transactor
}

// NewKVRepository creates a new KVRepository. tr may be nil, in which case
// multi-key deletes run without a transaction.
func NewKVRepository(db postgres.DBTX, tr Transactor) *KVRepository {
	return &KVRepository{db: db, tr: tr}
}

// Get retrieves the value stored under key.
func (r *KVRepository) Get(ctx context.Context, key string) (string, error) {
	query, args, err := psql.
		Select("value").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build get query: %w", err)
	}

	var value string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", preferences.ErrKeyNotFound
		}
		return "", fmt.Errorf("get value: %w", err)
	}

	return value, nil
}

// Set inserts or replaces the value stored under key.
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	query, args, err := psql.
		Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("NOW()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build set query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("set value: %w", err)
	}

	return nil
}

// Delete removes keys in a single transaction.
func (r *KVRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if r.tr == nil {
		return deleteKeys(ctx, r.db, keys)
	}

	return r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return deleteKeys(ctx, tx, keys)
	})
}

func deleteKeys(ctx context.Context, db postgres.DBTX, keys []string) error {
	for _, key := range keys {
		query, args, err := psql.
			Delete(kvTable).
			Where(sq.Eq{"key": key}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete query: %w", err)
		}

		if _, err := db.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}
