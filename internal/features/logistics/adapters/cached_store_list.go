package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shop-checkout/internal/core/cache"
	"shop-checkout/internal/core/logger"
	"shop-checkout/internal/features/logistics/domain"
	"shop-checkout/internal/features/logistics/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const storeListCacheKeyPrefix = "courier_stores:"

// CachedStoreList implements ports.StoreDirectory by caching another directory per sub-type.
// Concurrent misses for the same sub-type share one upstream call.
type CachedStoreList struct {
	next  ports.StoreDirectory
	cache cache.Cache
	ttl   time.Duration
	group singleflight.Group
}

// NewCachedStoreList creates a new CachedStoreList.
func NewCachedStoreList(next ports.StoreDirectory, c cache.Cache, ttl time.Duration) *CachedStoreList {
	return &CachedStoreList{
		next:  next,
		cache: c,
		ttl:   ttl,
	}
}

// GetStoreList implements ports.StoreDirectory.
func (c *CachedStoreList) GetStoreList(ctx context.Context, subType domain.SubType) ([]domain.Store, error) {
	key := storeListCacheKeyPrefix + string(subType)

	if stores, ok := c.lookup(ctx, key); ok {
		return stores, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		stores, err := c.next.GetStoreList(ctx, subType)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, stores)
		return stores, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Named("logistics").Debug("Store list fetch shared", zap.String("sub_type", string(subType)))
	}
	return v.([]domain.Store), nil
}

func (c *CachedStoreList) lookup(ctx context.Context, key string) ([]domain.Store, bool) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Named("logistics").Warn("Store list cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var stores []domain.Store
	if err := json.Unmarshal(data, &stores); err != nil {
		logger.Named("logistics").Warn("Discarding corrupt store list cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return stores, true
}

func (c *CachedStoreList) store(ctx context.Context, key string, stores []domain.Store) {
	data, err := json.Marshal(stores)
	if err != nil {
		logger.Named("logistics").Warn("Failed to encode store list", zap.Error(fmt.Errorf("marshal: %w", err)))
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		logger.Named("logistics").Warn("Store list cache write failed", zap.String("key", key), zap.Error(err))
	}
}
