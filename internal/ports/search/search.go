package search

import "context"

// Match is one vector-index hit over the restaurant/menu document corpus.
// Content is the indexed document text; relevance checks require literal
// containment of the dish in it, similarity alone is not sufficient.
type Match struct {
	RestaurantID int64
	Content      string
	Score        float64
}

// Searcher is the semantic similarity index over restaurant/menu documents.
type Searcher interface {
	SearchMenus(ctx context.Context, query string, topK int) ([]Match, error)
}

// Indexer maintains the document corpus behind the Searcher.
type Indexer interface {
	// Bootstrap creates the index schema when it does not exist yet.
	Bootstrap(ctx context.Context) error
	// IndexMenus upserts one document per restaurant.
	IndexMenus(ctx context.Context, docs map[int64]string) error
}
