package geo

import (
	"context"

	"github.com/bap-pick/bab-back/internal/domain"
)

// Match is one geo-index hit with its distance from the query point.
type Match struct {
	RestaurantID int64
	DistanceKm   float64
}

// Index is a radius-query index over restaurant coordinates, bulk-loaded
// from the relational store at startup.
type Index interface {
	// Load replaces the index contents. Points without valid coordinates
	// were already filtered out by the caller.
	Load(ctx context.Context, points []domain.RestaurantLocation) error
	// Upsert adds or moves a single point, keeping the rest of the index.
	Upsert(ctx context.Context, point domain.RestaurantLocation) error
	// Nearby returns all restaurants within radiusKm of the point, nearest
	// first. limit <= 0 means no cap.
	Nearby(ctx context.Context, longitude, latitude, radiusKm float64, limit int) ([]Match, error)
}
