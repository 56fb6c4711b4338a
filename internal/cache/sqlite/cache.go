// Package sqlite is a cache.Cache persisted in the http_cache table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/bggcollect/internal/cache"
	"github.com/vytor/bggcollect/internal/logger"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

var _ cache.Cache = (*Cache)(nil)

// New creates a cache on db, which must have the migrations applied. A
// non-positive ttl keeps entries forever.
func New(db *sql.DB, ttl time.Duration) *Cache {
	return &Cache{db: db, ttl: ttl, now: time.Now}
}

func (c *Cache) cutoff() int64 {
	return c.now().Add(-c.ttl).UnixNano()
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("cache")

	query := sqlBuilder.Select("body").From("http_cache").Where(squirrel.Eq{"url": key})
	if c.ttl > 0 {
		query = query.Where(squirrel.Gt{"fetched_at": c.cutoff()})
	}
	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return "", false, err
	}

	var body string
	err = c.db.QueryRowContext(ctx, stmt, args...).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("cache miss: %s", key)
		return "", false, nil
	}
	if err != nil {
		log.Error("failed to read cache entry: %v", err)
		return "", false, err
	}
	log.Debug("cache hit: %s", key)
	return body, true, nil
}

func (c *Cache) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("cache")

	stmt, args, err := sqlBuilder.Insert("http_cache").
		Columns("url", "body", "fetched_at").
		Values(key, value, c.now().UnixNano()).
		Suffix("ON CONFLICT(url) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}
	if _, err := c.db.ExecContext(ctx, stmt, args...); err != nil {
		log.Error("failed to store cache entry: %v", err)
		return err
	}
	log.Debug("cached %d bytes for %s", len(value), key)
	return nil
}

// Purge deletes expired entries and returns how many were removed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	log := logger.FromContext(ctx).WithPrefix("cache")

	stmt, args, err := sqlBuilder.Delete("http_cache").
		Where(squirrel.LtOrEq{"fetched_at": c.cutoff()}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}
	res, err := c.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to purge cache: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Info("purged %d expired cache entries", n)
	return n, nil
}
