package saju

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/service"
)

// Cache key layout. Daily keys expire at local midnight so a new day never
// serves yesterday's reading.
const (
	dailyKeyFmt = "user:oheng:%s:%s"
	iljinKeyFmt = "iljin:%s"
)

// Weight of today's day pillar blended on top of the baseline.
const (
	weightSky    = 20.0
	weightGround = 20.0
)

// BaselineFor returns the user's persisted birth-chart baseline, computing
// and persisting it on first use.
func (s *Service) BaselineFor(ctx context.Context, user *domain.User) (domain.ElementDistribution, domain.Stem, error) {
	if user.HasBaseline() {
		return user.Baseline, *user.DaySky, nil
	}

	profile, err := user.Profile()
	if err != nil {
		return domain.ElementDistribution{}, "", err
	}

	pillars, err := s.ResolvePillars(ctx, profile)
	if err != nil {
		return domain.ElementDistribution{}, "", fmt.Errorf("resolve pillars for user %s: %w", user.UID, err)
	}

	baseline, err := Score(pillars)
	if err != nil {
		return domain.ElementDistribution{}, "", err
	}

	if err := s.UserRepo.UpdateBaseline(ctx, user, baseline, pillars.DaySky, pillars.DayGround); err != nil {
		return domain.ElementDistribution{}, "", fmt.Errorf("persist baseline for user %s: %w", user.UID, err)
	}

	user.Baseline = baseline
	user.DaySky = &pillars.DaySky
	user.DayGround = &pillars.DayGround

	return baseline, pillars.DaySky, nil
}

// TodayReading blends the baseline with today's day pillar and classifies
// the result. Cached per (user, calendar day).
func (s *Service) TodayReading(ctx context.Context, user *domain.User, now time.Time) (*service.DailyReading, error) {
	date := now.Format("2006-01-02")
	dailyKey := fmt.Sprintf(dailyKeyFmt, user.UID, date)

	if raw, err := s.Cache.Get(ctx, dailyKey); err == nil && raw != "" {
		var cached service.DailyReading
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
		s.Log.Warn("dropping unreadable daily reading cache entry", "key", dailyKey)
	}

	baseline, daySky, err := s.BaselineFor(ctx, user)
	if err != nil {
		return nil, err
	}

	iljin, err := s.todayIljin(ctx, now)
	if err != nil {
		return nil, err
	}

	dist := baseline
	skyElem, err := StemElement(iljin.DaySky)
	if err != nil {
		return nil, err
	}
	groundElem, err := BranchElement(iljin.DayGround)
	if err != nil {
		return nil, err
	}
	dist.Add(skyElem, weightSky)
	dist.Add(groundElem, weightGround)
	dist = normalize(dist)

	relation, err := TenRelation(daySky, iljin.DaySky)
	if err != nil {
		return nil, err
	}

	reading := &service.DailyReading{
		Distribution:   dist,
		Classification: Classify(dist),
		Relation:       relation,
		DaySky:         iljin.DaySky,
		DayGround:      iljin.DayGround,
	}

	if payload, err := json.Marshal(reading); err == nil {
		if err := s.Cache.Set(ctx, dailyKey, string(payload), untilMidnight(now)); err != nil {
			s.Log.Warn("failed to cache daily reading", "key", dailyKey, "error", err)
		}
	}

	return reading, nil
}

// todayIljin returns today's day pillar, shared across users through the
// iljin cache.
func (s *Service) todayIljin(ctx context.Context, now time.Time) (*domain.Iljin, error) {
	date := now.Format("2006-01-02")
	key := fmt.Sprintf(iljinKeyFmt, date)

	if raw, err := s.Cache.Get(ctx, key); err == nil && raw != "" {
		var cached domain.Iljin
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
	}

	record, err := s.AlmanacRepo.GetBySolarDate(ctx, truncateToDay(now))
	if err != nil {
		return nil, fmt.Errorf("almanac record for %s: %w", date, err)
	}

	iljin := &domain.Iljin{
		Date:      date,
		DaySky:    record.DaySky,
		DayGround: record.DayGround,
	}

	if payload, err := json.Marshal(iljin); err == nil {
		if err := s.Cache.Set(ctx, key, string(payload), untilMidnight(now)); err != nil {
			s.Log.Warn("failed to cache iljin", "key", key, "error", err)
		}
	}

	return iljin, nil
}

// untilMidnight is the remaining lifetime of today's cache entries.
func untilMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return next.Sub(now)
}
