package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/config"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
)

const (
	planSummaryKeyPrefix = "planning:summary"
	planScanBatchSize    = 100
)

// PlanSummaryCache keeps run summaries hot for the dashboard banner. Line
// detail is never cached, only the rollup.
type PlanSummaryCache interface {
	GetSummary(ctx context.Context, runID string) (*domain.RunSummary, bool, error)
	SetSummary(ctx context.Context, summary domain.RunSummary) error
	InvalidateSummary(ctx context.Context, runID string) error
	InvalidateAll(ctx context.Context) error
}

type redisPlanSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPlanSummaryCache struct{}

func NewPlanSummaryCache(cfg config.CacheConfig) (PlanSummaryCache, error) {
	if !cfg.Enabled {
		return &noopPlanSummaryCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPlanSummaryCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopPlanSummaryCache() PlanSummaryCache {
	return &noopPlanSummaryCache{}
}

func (c *redisPlanSummaryCache) GetSummary(ctx context.Context, runID string) (*domain.RunSummary, bool, error) {
	key := buildPlanSummaryKey(runID)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.RunSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode plan summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisPlanSummaryCache) SetSummary(ctx context.Context, summary domain.RunSummary) error {
	key := buildPlanSummaryKey(summary.RunID)
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode plan summary cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisPlanSummaryCache) InvalidateSummary(ctx context.Context, runID string) error {
	return c.client.Del(ctx, buildPlanSummaryKey(runID)).Err()
}

func (c *redisPlanSummaryCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, planSummaryKeyPrefix, planScanBatchSize)
}

func (n *noopPlanSummaryCache) GetSummary(ctx context.Context, runID string) (*domain.RunSummary, bool, error) {
	return nil, false, nil
}

func (n *noopPlanSummaryCache) SetSummary(ctx context.Context, summary domain.RunSummary) error {
	return nil
}

func (n *noopPlanSummaryCache) InvalidateSummary(ctx context.Context, runID string) error {
	return nil
}

func (n *noopPlanSummaryCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildPlanSummaryKey(runID string) string {
	return fmt.Sprintf("%s:%s", planSummaryKeyPrefix, runID)
}
