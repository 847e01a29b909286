package domain

// RestaurantSummary is the cached display view of a restaurant, populated in
// bulk from the relational store and refreshed on restaurant-record writes.
type RestaurantSummary struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Address     string  `json:"address"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// HasCoordinates reports whether the summary carries usable coordinates.
// Candidates without them are skipped, not treated as errors.
func (s RestaurantSummary) HasCoordinates() bool {
	return s.Latitude != 0 || s.Longitude != 0
}

// RestaurantLocation is the minimal row loaded into the geo index.
type RestaurantLocation struct {
	ID        int64   `db:"id"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}

// RestaurantCandidate is one ranked search result. Ephemeral: constructed
// per query, never persisted.
type RestaurantCandidate struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Address     string   `json:"address"`
	Image       string   `json:"image,omitempty"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	DistanceKm  float64  `json:"distance_km"`
	Score       *float64 `json:"score,omitempty"`
}

// RestaurantMenu is one menu row of a restaurant detail view.
type RestaurantMenu struct {
	ID    int64   `db:"id" json:"id"`
	Name  *string `db:"menu_name" json:"menu_name"`
	Price *int    `db:"menu_price" json:"menu_price"`
}

// RestaurantDetail is the full per-restaurant view served by the detail
// endpoint.
type RestaurantDetail struct {
	Summary RestaurantSummary `json:"summary"`
	Menus   []RestaurantMenu  `json:"menus"`
}
