package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/geo"
)

// restaurantGeoKey is the sorted set holding every restaurant coordinate.
const restaurantGeoKey = "restaurant:geo"

// GeoIndex is the radius-query index over restaurant coordinates, backed by
// a redis geo sorted set.
type GeoIndex struct {
	client *redis.Client
}

// NewGeoIndex creates the geo adapter.
func NewGeoIndex(client *redis.Client) geo.Index {
	return &GeoIndex{client: client}
}

// Load replaces the index contents with the given points.
func (g *GeoIndex) Load(ctx context.Context, points []domain.RestaurantLocation) error {
	pipe := g.client.TxPipeline()
	pipe.Del(ctx, restaurantGeoKey)
	for _, p := range points {
		pipe.GeoAdd(ctx, restaurantGeoKey, &redis.GeoLocation{
			Name:      strconv.FormatInt(p.ID, 10),
			Longitude: p.Longitude,
			Latitude:  p.Latitude,
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("geo index load failed: %w", err)
	}
	return nil
}

// Upsert adds or moves a single point, keeping the rest of the index.
func (g *GeoIndex) Upsert(ctx context.Context, point domain.RestaurantLocation) error {
	err := g.client.GeoAdd(ctx, restaurantGeoKey, &redis.GeoLocation{
		Name:      strconv.FormatInt(point.ID, 10),
		Longitude: point.Longitude,
		Latitude:  point.Latitude,
	}).Err()
	if err != nil {
		return fmt.Errorf("geo index upsert failed: %w", err)
	}
	return nil
}

// Nearby returns all restaurants within radiusKm of the point, nearest first.
func (g *GeoIndex) Nearby(ctx context.Context, longitude, latitude, radiusKm float64, limit int) ([]geo.Match, error) {
	locations, err := g.client.GeoSearchLocation(ctx, restaurantGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  longitude,
			Latitude:   latitude,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo search failed: %w", err)
	}

	matches := make([]geo.Match, 0, len(locations))
	for _, loc := range locations {
		id, err := strconv.ParseInt(loc.Name, 10, 64)
		if err != nil {
			// A member that is not a restaurant id should never be in the
			// set; skip it rather than fail the whole query.
			continue
		}
		matches = append(matches, geo.Match{
			RestaurantID: id,
			DistanceKm:   loc.Dist,
		})
	}
	return matches, nil
}
