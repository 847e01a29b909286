package weaviate

import (
	"context"
	"fmt"
	"log/slog"

	weaviate "github.com/weaviate/weaviate-go-client/v5/weaviate"
	gql "github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/search"
)

// menuClass is the vector class of the restaurant/menu document corpus. One
// document per restaurant, content concatenates its category and menu names.
const menuClass = "MenuDocument"

// Searcher runs semantic similarity queries over the menu corpus.
type Searcher struct {
	client *weaviate.Client
	Log    *slog.Logger
}

// NewSearcher creates the vector search adapter.
func NewSearcher(client *weaviate.Client, log *slog.Logger) *Searcher {
	return &Searcher{client: client, Log: log}
}

// Bootstrap ensures the menu class exists. Vectorization is delegated to the
// server-side vectorizer module.
func (s *Searcher) Bootstrap(ctx context.Context) error {
	exists, err := s.client.Schema().ClassExistenceChecker().WithClassName(menuClass).Do(ctx)
	if err != nil {
		return fmt.Errorf("check class %s: %w", menuClass, err)
	}
	if exists {
		return nil
	}

	class := &models.Class{
		Class:      menuClass,
		Vectorizer: "text2vec-transformers",
		Properties: []*models.Property{
			{Name: "restaurantId", DataType: []string{"int"}},
			{Name: "content", DataType: []string{"text"}},
		},
	}
	if err := s.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
		return fmt.Errorf("create class %s: %w", menuClass, err)
	}
	s.Log.Info("menu document class created", "class", menuClass)
	return nil
}

// SearchMenus returns the topK most similar menu documents for a query.
func (s *Searcher) SearchMenus(ctx context.Context, query string, topK int) ([]search.Match, error) {
	nearText := (&gql.NearTextArgumentBuilder{}).WithConcepts([]string{query})

	resp, err := s.client.GraphQL().Get().
		WithClassName(menuClass).
		WithNearText(nearText).
		WithLimit(topK).
		WithFields(
			gql.Field{Name: "restaurantId"},
			gql.Field{Name: "content"},
			gql.Field{Name: "_additional", Fields: []gql.Field{{Name: "certainty"}}},
		).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("menu search %q: %w: %v", query, domain.ErrExternalService, err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("menu search %q: %w: %s", query, domain.ErrExternalService, resp.Errors[0].Message)
	}

	getData, ok := resp.Data["Get"].(map[string]interface{})
	if !ok {
		return []search.Match{}, nil
	}
	raw, ok := getData[menuClass].([]interface{})
	if !ok {
		return []search.Match{}, nil
	}

	matches := make([]search.Match, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		id, ok := m["restaurantId"].(float64)
		if !ok {
			continue
		}
		content, _ := m["content"].(string)

		var score float64
		if add, ok := m["_additional"].(map[string]interface{}); ok {
			if c, ok := add["certainty"].(float64); ok {
				score = c
			}
		}

		matches = append(matches, search.Match{
			RestaurantID: int64(id),
			Content:      content,
			Score:        score,
		})
	}

	s.Log.Debug("menu search finished", "query", query, "hits", len(matches))
	return matches, nil
}

// IndexMenus upserts one document per restaurant summary with its menu text.
func (s *Searcher) IndexMenus(ctx context.Context, docs map[int64]string) error {
	batcher := s.client.Batch().ObjectsBatcher()
	for id, content := range docs {
		batcher = batcher.WithObjects(&models.Object{
			Class: menuClass,
			Properties: map[string]interface{}{
				"restaurantId": id,
				"content":      content,
			},
		})
	}
	if _, err := batcher.Do(ctx); err != nil {
		return fmt.Errorf("index menus: %w", err)
	}
	return nil
}
