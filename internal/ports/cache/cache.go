package cache

import (
	"context"
	"time"

	"github.com/bap-pick/bab-back/internal/domain"
)

// Cache is a string key-value cache with per-key TTL. Writers use atomic
// single-key sets, never read-modify-write.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// SummaryCache holds per-restaurant display summaries. Populated in bulk at
// startup and refreshed on restaurant-record writes.
type SummaryCache interface {
	SetSummaries(ctx context.Context, summaries []domain.RestaurantSummary) error
	GetSummaries(ctx context.Context, ids []int64) (map[int64]domain.RestaurantSummary, error)
}
