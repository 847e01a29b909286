package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bap-pick/bab-back/internal/ports/cache"
	"github.com/bap-pick/bab-back/internal/ports/geo"
	"github.com/bap-pick/bab-back/internal/ports/repository"
	"github.com/bap-pick/bab-back/internal/ports/search"
)

const cacheWarmerName = "restaurant-cache-warmer"

// CacheWarmer rebuilds the restaurant caches from the relational store:
// geo index, summary hash and the menu search corpus. Runs once at startup
// and then every day at 04:00 KST to pick up out-of-band data loads.
type CacheWarmer struct {
	restaurants repository.IRestaurantRepo
	geoIndex    geo.Index
	summaries   cache.SummaryCache
	indexer     search.Indexer
	log         *slog.Logger
	location    *time.Location
}

// NewCacheWarmer creates the cache warm-up job. indexer may be nil when the
// search index is maintained externally.
func NewCacheWarmer(
	restaurants repository.IRestaurantRepo,
	geoIndex geo.Index,
	summaries cache.SummaryCache,
	indexer search.Indexer,
	log *slog.Logger,
) *CacheWarmer {
	location, _ := time.LoadLocation("Asia/Seoul")
	if location == nil {
		location = time.UTC
	}

	return &CacheWarmer{
		restaurants: restaurants,
		geoIndex:    geoIndex,
		summaries:   summaries,
		indexer:     indexer,
		log:         log,
		location:    location,
	}
}

func (j *CacheWarmer) Name() string {
	return cacheWarmerName
}

// NextRun schedules the next daily refresh at 04:00 KST.
func (j *CacheWarmer) NextRun(now time.Time) time.Time {
	nowSeoul := now.In(j.location)

	next := time.Date(nowSeoul.Year(), nowSeoul.Month(), nowSeoul.Day(), 4, 0, 0, 0, j.location)
	if next.Before(nowSeoul) || next.Equal(nowSeoul) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// Run reloads every cache.
func (j *CacheWarmer) Run(ctx context.Context) error {
	start := time.Now()

	locations, err := j.restaurants.ListLocations(ctx)
	if err != nil {
		return fmt.Errorf("cache warmer: %w", err)
	}
	if err := j.geoIndex.Load(ctx, locations); err != nil {
		return fmt.Errorf("cache warmer: %w", err)
	}

	summaries, err := j.restaurants.ListSummaries(ctx)
	if err != nil {
		return fmt.Errorf("cache warmer: %w", err)
	}
	if err := j.summaries.SetSummaries(ctx, summaries); err != nil {
		return fmt.Errorf("cache warmer: %w", err)
	}

	indexed := 0
	if j.indexer != nil {
		docs, err := j.restaurants.ListMenuDocuments(ctx)
		if err != nil {
			return fmt.Errorf("cache warmer: %w", err)
		}
		if err := j.indexer.IndexMenus(ctx, docs); err != nil {
			return fmt.Errorf("cache warmer: %w", err)
		}
		indexed = len(docs)
	}

	j.log.Info("restaurant caches warmed",
		"locations", len(locations),
		"summaries", len(summaries),
		"indexed_docs", indexed,
		"took", time.Since(start),
	)
	return nil
}
