package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"condoqueixas/internal/errs"
	"condoqueixas/internal/infrastructure/persistence/relational/model"
	"condoqueixas/internal/ports"
)

// SQLCache keeps entries in the cache_kv table of the main database.
// Expired rows are treated as missing and removed lazily on read.
type SQLCache struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ports.Cache = (*SQLCache)(nil)

func NewSQLCache(db *gorm.DB) *SQLCache {
	return &SQLCache{db: db, now: time.Now}
}

func (c *SQLCache) Get(ctx context.Context, key string) (string, bool, error) {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return "", false, err
	}

	var row model.CacheEntry
	if err := c.db.WithContext(ctx).Where("key = ?", trimmedKey).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errs.Wrap(err, "query cache by key")
	}

	if row.ExpiresAt != nil && !row.ExpiresAt.After(c.now().UTC()) {
		if err := c.db.WithContext(ctx).Where("key = ?", trimmedKey).Delete(&model.CacheEntry{}).Error; err != nil {
			return "", false, errs.Wrap(err, "delete expired cache key")
		}
		return "", false, nil
	}

	return row.Value, true, nil
}

// Set stores value under key. A ttl of zero or less never expires.
func (c *SQLCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}

	now := c.now().UTC()
	row := model.CacheEntry{
		Key:       trimmedKey,
		Value:     value,
		UpdatedAt: now,
	}
	if ttl > 0 {
		expiresAt := now.Add(ttl)
		row.ExpiresAt = &expiresAt
	}

	if err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"expires_at": row.ExpiresAt,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert cache key")
	}

	return nil
}

func (c *SQLCache) Delete(ctx context.Context, key string) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}

	if err := c.db.WithContext(ctx).Where("key = ?", trimmedKey).Delete(&model.CacheEntry{}).Error; err != nil {
		return errs.Wrap(err, "delete cache key")
	}
	return nil
}

func checkKey(ctx context.Context, key string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}

	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return "", errors.New("key is required")
	}
	return trimmedKey, nil
}
