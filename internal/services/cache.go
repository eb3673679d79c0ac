package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/glowsalon/loyalty-platform/internal/appointments"
	"github.com/glowsalon/loyalty-platform/pkg/logging"
)

const cacheTTL = 5 * time.Minute

// Catalog serves read-only catalog entries to the appointments core,
// fronted by an optional Redis cache. A nil redis client degrades to
// plain Postgres reads.
type Catalog struct {
	store  *Store
	redis  *redis.Client
	logger *logging.Logger
}

// NewCatalog creates the catalog reader.
func NewCatalog(store *Store, redisClient *redis.Client, logger *logging.Logger) *Catalog {
	if logger == nil {
		logger = logging.Default()
	}
	return &Catalog{store: store, redis: redisClient, logger: logger}
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:servicio:%s", id)
}

// Entries implements appointments.CatalogReader. Cache misses fall
// through to Postgres and refill the cache; cache errors are logged and
// otherwise ignored, reads must not fail because Redis is down.
func (c *Catalog) Entries(ctx context.Context, ids []uuid.UUID) ([]appointments.CatalogEntry, error) {
	entries := make([]appointments.CatalogEntry, 0, len(ids))
	var misses []uuid.UUID

	for _, id := range ids {
		if svc, ok := c.cached(ctx, id); ok {
			entries = append(entries, toEntry(svc))
			continue
		}
		misses = append(misses, id)
	}

	if len(misses) > 0 {
		rows, err := c.store.GetByIDs(ctx, misses)
		if err != nil {
			return nil, err
		}
		for _, svc := range rows {
			c.fill(ctx, svc)
			entries = append(entries, toEntry(svc))
		}
	}
	return entries, nil
}

func (c *Catalog) cached(ctx context.Context, id uuid.UUID) (*Service, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, cacheKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("catalog cache read failed", "error", err)
		return nil, false
	}
	var svc Service
	if err := json.Unmarshal(data, &svc); err != nil {
		c.logger.Warn("catalog cache entry corrupt", "error", err)
		return nil, false
	}
	return &svc, true
}

func (c *Catalog) fill(ctx context.Context, svc *Service) {
	if c.redis == nil {
		return
	}
	data, err := json.Marshal(svc)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKey(svc.ID), data, cacheTTL).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", "error", err)
	}
}

// Invalidate drops a cached entry after a catalog mutation.
func (c *Catalog) Invalidate(ctx context.Context, id uuid.UUID) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.Warn("catalog cache invalidate failed", "error", err)
	}
}

func toEntry(svc *Service) appointments.CatalogEntry {
	return appointments.CatalogEntry{
		ID:             svc.ID,
		PointsRequired: svc.PointsRequired,
		PointsAwarded:  svc.PointsAwarded,
	}
}
