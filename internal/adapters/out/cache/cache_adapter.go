package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mentorloop/mentor-slots-generator/internal/config"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
)

// Кэшируется только конфигурация доступности ментора
// (расписание + шаблоны + исключения). Слоты не кэшируются:
// каждый запрос пересчитывает их из актуальных данных.
const scheduleBundleTTL = 30 * time.Minute

type scheduleBundleEntry struct {
	bundle   domain.ScheduleBundle
	storedAt time.Time
}

type CacheAdapter struct {
	mu      sync.RWMutex
	bundles *lru.Cache[uuid.UUID, *scheduleBundleEntry]
	logger  out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	bundles, err := lru.New[uuid.UUID, *scheduleBundleEntry](cfg.Cache.SchedulesSize)
	if err != nil {
		logger.Error("cache.schedules.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.SchedulesSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		bundles: bundles,
		logger:  logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) GetScheduleBundle(ctx context.Context, mentorID uuid.UUID) (*domain.ScheduleBundle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.bundles.Get(mentorID)
	if !exists {
		c.logger.Debug("cache.schedule_bundle.miss", out.LogFields{
			"mentorId": mentorID,
		})
		return nil, false
	}

	// Протухшая запись равносильна промаху, инвалидацию сделает Store
	if time.Since(entry.storedAt) > scheduleBundleTTL {
		c.logger.Debug("cache.schedule_bundle.expired", out.LogFields{
			"mentorId": mentorID,
		})
		return nil, false
	}

	c.logger.Debug("cache.schedule_bundle.hit", out.LogFields{
		"mentorId": mentorID,
	})

	bundle := entry.bundle
	return &bundle, true
}

func (c *CacheAdapter) StoreScheduleBundle(ctx context.Context, mentorID uuid.UUID, bundle domain.ScheduleBundle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.schedule_bundle.store", out.LogFields{
		"mentorId":   mentorID,
		"patterns":   len(bundle.Patterns),
		"exceptions": len(bundle.Exceptions),
	})

	c.bundles.Add(mentorID, &scheduleBundleEntry{
		bundle:   bundle,
		storedAt: time.Now(),
	})
}

func (c *CacheAdapter) InvalidateScheduleBundle(ctx context.Context, mentorID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.schedule_bundle.invalidate", out.LogFields{
		"mentorId": mentorID,
	})

	c.bundles.Remove(mentorID)
}
