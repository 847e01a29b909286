package restaurant

import (
	"log/slog"

	"github.com/bap-pick/bab-back/internal/ports/cache"
	"github.com/bap-pick/bab-back/internal/ports/geo"
	"github.com/bap-pick/bab-back/internal/ports/search"
)

// Matcher is the two-stage restaurant search: a geo radius filter narrowing
// the candidate set, then a menu relevance filter over it.
type Matcher struct {
	Geo     geo.Index
	Search  search.Searcher
	Summary cache.SummaryCache
	Log     *slog.Logger
}

// New creates the matcher.
func New(
	geoIndex geo.Index,
	searcher search.Searcher,
	summary cache.SummaryCache,
	log *slog.Logger,
) *Matcher {
	return &Matcher{
		Geo:     geoIndex,
		Search:  searcher,
		Summary: summary,
		Log:     log,
	}
}
