package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bap-pick/bab-back/internal/domain"
	cachePorts "github.com/bap-pick/bab-back/internal/ports/cache"
	geoPorts "github.com/bap-pick/bab-back/internal/ports/geo"
	kafkaPorts "github.com/bap-pick/bab-back/internal/ports/kafka"
	repoPorts "github.com/bap-pick/bab-back/internal/ports/repository"
)

// RestaurantUpdateHandler refreshes the summary cache and the geo index
// when the admin side writes a restaurant record.
type RestaurantUpdateHandler struct {
	Restaurants repoPorts.IRestaurantRepo
	Summaries   cachePorts.SummaryCache
	Geo         geoPorts.Index
	Log         *slog.Logger
}

// NewRestaurantUpdateHandler creates the handler for restaurant update events.
func NewRestaurantUpdateHandler(restaurants repoPorts.IRestaurantRepo, summaries cachePorts.SummaryCache, geo geoPorts.Index, log *slog.Logger) kafkaPorts.MessageHandler {
	return &RestaurantUpdateHandler{
		Restaurants: restaurants,
		Summaries:   summaries,
		Geo:         geo,
		Log:         log,
	}
}

// HandleMessage reloads one restaurant's cached views from the relational
// store. A restaurant missing from the store is treated as deleted and the
// event is dropped.
func (h *RestaurantUpdateHandler) HandleMessage(ctx context.Context, key string, value []byte) error {
	var event RestaurantUpdateMessage
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal restaurant update: %w", err)
	}

	if event.RestaurantID == 0 {
		return fmt.Errorf("restaurant_id is required in restaurant update")
	}

	summary, err := h.Restaurants.GetSummary(ctx, event.RestaurantID)
	if err != nil {
		if domain.IsNotFound(err) {
			h.Log.Warn("restaurant update for unknown restaurant",
				"restaurant_id", event.RestaurantID,
				"key", key,
			)
			return nil
		}
		return fmt.Errorf("failed to load restaurant %d: %w", event.RestaurantID, err)
	}

	if err := h.Summaries.SetSummaries(ctx, []domain.RestaurantSummary{*summary}); err != nil {
		return fmt.Errorf("failed to refresh summary cache: %w", err)
	}

	if summary.HasCoordinates() {
		point := domain.RestaurantLocation{
			ID:        summary.ID,
			Latitude:  summary.Latitude,
			Longitude: summary.Longitude,
		}
		if err := h.Geo.Upsert(ctx, point); err != nil {
			return fmt.Errorf("failed to refresh geo index: %w", err)
		}
	}

	h.Log.Debug("restaurant caches refreshed",
		"restaurant_id", event.RestaurantID,
	)
	return nil
}

// RestaurantUpdateMessage is the restaurant update event payload.
type RestaurantUpdateMessage struct {
	RestaurantID int64  `json:"restaurant_id"`
	Action       string `json:"action,omitempty"`
}
