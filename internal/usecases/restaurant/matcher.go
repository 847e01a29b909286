package restaurant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bap-pick/bab-back/internal/domain"
)

const (
	// vectorTopK is how many similarity hits the menu index is asked for
	// before geo intersection and literal filtering.
	vectorTopK = 50
	// dishResultCap bounds a dish-search reply.
	dishResultCap = 3
)

// MatchByDish finds up to three restaurants within the radius that actually
// serve the dish. An empty slice is a valid outcome at every stage; only
// infrastructure failures surface as errors.
func (m *Matcher) MatchByDish(ctx context.Context, dish string, longitude, latitude, radiusKm float64) ([]domain.RestaurantCandidate, error) {
	nearby, err := m.Geo.Nearby(ctx, longitude, latitude, radiusKm, 0)
	if err != nil {
		return nil, fmt.Errorf("geo search: %w", err)
	}
	if len(nearby) == 0 {
		// Nothing in the radius: skip the vector index entirely.
		return []domain.RestaurantCandidate{}, nil
	}

	distances := make(map[int64]float64, len(nearby))
	for _, hit := range nearby {
		distances[hit.RestaurantID] = hit.DistanceKm
	}

	hits, err := m.Search.SearchMenus(ctx, dish, vectorTopK)
	if err != nil {
		return nil, fmt.Errorf("menu search %q: %w", dish, err)
	}

	// Keep hits that are inside the radius and literally mention the dish.
	// Similarity alone pulls in "related cuisine" noise.
	needle := normalizeDish(dish)
	type scored struct {
		id       int64
		distance float64
		score    float64
	}
	var matched []scored
	seen := make(map[int64]bool, len(hits))
	for _, hit := range hits {
		dist, inRadius := distances[hit.RestaurantID]
		if !inRadius || seen[hit.RestaurantID] {
			continue
		}
		if !strings.Contains(normalizeDish(hit.Content), needle) {
			continue
		}
		seen[hit.RestaurantID] = true
		matched = append(matched, scored{hit.RestaurantID, dist, hit.Score})
	}
	if len(matched) == 0 {
		return []domain.RestaurantCandidate{}, nil
	}

	ids := make([]int64, 0, len(matched))
	for _, s := range matched {
		ids = append(ids, s.id)
	}
	summaries, err := m.Summary.GetSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("summary lookup: %w", err)
	}

	candidates := make([]domain.RestaurantCandidate, 0, len(matched))
	for _, s := range matched {
		summary, ok := summaries[s.id]
		if !ok || !summary.HasCoordinates() {
			// Stale index entry or unplottable row: drop it, don't fail.
			m.Log.Debug("skipping candidate without summary coordinates", "restaurant_id", s.id)
			continue
		}
		score := s.score
		candidates = append(candidates, buildCandidate(summary, s.distance, &score))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DistanceKm < candidates[j].DistanceKm
	})
	if len(candidates) > dishResultCap {
		candidates = candidates[:dishResultCap]
	}
	return candidates, nil
}

// Nearby is plain browsing without a dish, ranked by review popularity.
func (m *Matcher) Nearby(ctx context.Context, longitude, latitude, radiusKm float64, limit int) ([]domain.RestaurantCandidate, error) {
	hits, err := m.Geo.Nearby(ctx, longitude, latitude, radiusKm, 0)
	if err != nil {
		return nil, fmt.Errorf("geo search: %w", err)
	}
	if len(hits) == 0 {
		return []domain.RestaurantCandidate{}, nil
	}

	ids := make([]int64, 0, len(hits))
	distances := make(map[int64]float64, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.RestaurantID)
		distances[hit.RestaurantID] = hit.DistanceKm
	}

	summaries, err := m.Summary.GetSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("summary lookup: %w", err)
	}

	candidates := make([]domain.RestaurantCandidate, 0, len(summaries))
	for _, hit := range hits {
		summary, ok := summaries[hit.RestaurantID]
		if !ok || !summary.HasCoordinates() {
			continue
		}
		candidates = append(candidates, buildCandidate(summary, distances[hit.RestaurantID], nil))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ReviewCount > candidates[j].ReviewCount
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func buildCandidate(s domain.RestaurantSummary, distanceKm float64, score *float64) domain.RestaurantCandidate {
	return domain.RestaurantCandidate{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Address:     s.Address,
		Image:       s.Image,
		Rating:      s.Rating,
		ReviewCount: s.ReviewCount,
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		DistanceKm:  distanceKm,
		Score:       score,
	}
}

// normalizeDish strips all whitespace so "김치 찌개" and "김치찌개" compare equal.
func normalizeDish(s string) string {
	return strings.Join(strings.Fields(s), "")
}
