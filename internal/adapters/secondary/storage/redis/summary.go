package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/cache"
)

// restaurantSummaryKey is the hash holding per-restaurant display summaries,
// field = restaurant id, value = JSON summary.
const restaurantSummaryKey = "restaurant:summary"

// SummaryCache stores restaurant display summaries in one redis hash.
type SummaryCache struct {
	client *redis.Client
}

// NewSummaryCache creates the summary cache adapter.
func NewSummaryCache(client *redis.Client) cache.SummaryCache {
	return &SummaryCache{client: client}
}

// SetSummaries upserts summaries in a single pipeline.
func (s *SummaryCache) SetSummaries(ctx context.Context, summaries []domain.RestaurantSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	for _, summary := range summaries {
		raw, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("marshal summary %d: %w", summary.ID, err)
		}
		pipe.HSet(ctx, restaurantSummaryKey, strconv.FormatInt(summary.ID, 10), raw)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("summary cache write failed: %w", err)
	}
	return nil
}

// GetSummaries fetches summaries for the given ids in one HMGET. Missing
// ids are simply absent from the result map.
func (s *SummaryCache) GetSummaries(ctx context.Context, ids []int64) (map[int64]domain.RestaurantSummary, error) {
	if len(ids) == 0 {
		return map[int64]domain.RestaurantSummary{}, nil
	}

	fields := make([]string, 0, len(ids))
	for _, id := range ids {
		fields = append(fields, strconv.FormatInt(id, 10))
	}

	values, err := s.client.HMGet(ctx, restaurantSummaryKey, fields...).Result()
	if err != nil {
		return nil, fmt.Errorf("summary cache read failed: %w", err)
	}

	out := make(map[int64]domain.RestaurantSummary, len(ids))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok || raw == "" {
			continue
		}
		var summary domain.RestaurantSummary
		if err := json.Unmarshal([]byte(raw), &summary); err != nil {
			continue
		}
		out[ids[i]] = summary
	}
	return out, nil
}
