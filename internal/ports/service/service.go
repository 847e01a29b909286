package service

import (
	"context"
	"time"

	"github.com/bap-pick/bab-back/internal/domain"
)

// DailyReading is the day-specific analysis handed to the conversation flow.
type DailyReading struct {
	Distribution   domain.ElementDistribution `json:"distribution"`
	Classification domain.OhengClassification `json:"classification"`
	Relation       string                     `json:"relation"`
	DaySky         domain.Stem                `json:"day_sky"`
	DayGround      domain.Branch              `json:"day_ground"`
}

// ISajuService runs the four-pillar analysis pipeline.
type ISajuService interface {
	// ResolvePillars turns a birth profile into a four-pillar chart.
	ResolvePillars(ctx context.Context, profile domain.BirthProfile) (domain.Pillars, error)
	// BaselineFor returns the user's persisted baseline, computing and
	// persisting it first when absent.
	BaselineFor(ctx context.Context, user *domain.User) (domain.ElementDistribution, domain.Stem, error)
	// TodayReading blends the baseline with today's day pillar, cached per
	// (user, calendar day) until local midnight.
	TodayReading(ctx context.Context, user *domain.User, now time.Time) (*DailyReading, error)
}

// IRestaurantMatcher is the two-stage restaurant search.
type IRestaurantMatcher interface {
	// MatchByDish runs the geo filter then the menu relevance filter.
	// An empty slice is a valid outcome, distinct from an error.
	MatchByDish(ctx context.Context, dish string, longitude, latitude, radiusKm float64) ([]domain.RestaurantCandidate, error)
	// Nearby is plain browsing without a dish, ranked by review popularity.
	Nearby(ctx context.Context, longitude, latitude, radiusKm float64, limit int) ([]domain.RestaurantCandidate, error)
}

// IChatService drives the per-room conversation flow.
type IChatService interface {
	OpenRoom(ctx context.Context, uid string, roomID int64, isGroup bool) (*domain.BotReply, error)
	HandleUserMessage(ctx context.Context, uid string, roomID int64, text string, mentioned bool) (*domain.BotReply, error)
	HandleLocation(ctx context.Context, uid string, roomID int64, loc domain.LocationSignal) (*domain.BotReply, error)
}
