package kvstore

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const kvTable = "kv_records"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore keeps records in a single jsonb table keyed by
// (namespace, key). Values must be valid JSON. The seq column is assigned on
// first insert and never touched by updates, which gives List its order.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	query, args, err := psql.Select("value").
		From(kvTable).
		Where(sq.Eq{"namespace": namespace, "key": key}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var value []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres get %s/%s: %w", namespace, key, err)
	}
	return value, nil
}

func (s *PostgresStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	query, args, err := psql.Insert(kvTable).
		Columns("namespace", "key", "value", "updated_at").
		Values(namespace, key, value, sq.Expr("now()")).
		Suffix("ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres put %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, namespace, key string) error {
	query, args, err := psql.Delete(kvTable).
		Where(sq.Eq{"namespace": namespace, "key": key}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres delete %s/%s: %w", namespace, key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, namespace string) ([]Record, error) {
	query, args, err := psql.Select("key", "value").
		From(kvTable).
		Where(sq.Eq{"namespace": namespace}).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres list %s: %w", namespace, err)
	}
	defer rows.Close()

	out := make([]Record, 0, 20)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Key, &rec.Value); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
