package repository

import (
	"context"

	"github.com/bap-pick/bab-back/internal/domain"
)

// IRestaurantRepo reads restaurant rows for cache bulk-loads and the detail
// endpoint. Writes belong to the excluded admin layer, which emits a
// restaurant-updates event consumed by the cache refresh handler.
type IRestaurantRepo interface {
	ListLocations(ctx context.Context) ([]domain.RestaurantLocation, error)
	ListSummaries(ctx context.Context) ([]domain.RestaurantSummary, error)
	GetSummary(ctx context.Context, restaurantID int64) (*domain.RestaurantSummary, error)
	GetDetail(ctx context.Context, restaurantID int64) (*domain.RestaurantDetail, error)
	ListMenuDocuments(ctx context.Context) (map[int64]string, error)
}
