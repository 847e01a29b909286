package saju

import (
	"context"
	"log/slog"
	"time"

	"github.com/bap-pick/bab-back/internal/domain"
)

// fakeAlmanacRepo serves records from an in-memory slice keyed by date.
type fakeAlmanacRepo struct {
	records     []domain.AlmanacRecord
	solarCalls  int
	lunarCalls  int
	beforeCalls int
	lastLeap    bool
}

func (f *fakeAlmanacRepo) GetBySolarDate(_ context.Context, date time.Time) (*domain.AlmanacRecord, error) {
	f.solarCalls++
	for i := range f.records {
		if sameDay(f.records[i].SolarDate, date) {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAlmanacRepo) GetByLunarDate(_ context.Context, date time.Time, leapMonth bool) (*domain.AlmanacRecord, error) {
	f.lunarCalls++
	f.lastLeap = leapMonth
	for i := range f.records {
		if sameDay(f.records[i].LunarDate, date) && f.records[i].LeapMonth == leapMonth {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAlmanacRepo) GetLatestBefore(_ context.Context, solarDate time.Time) (*domain.AlmanacRecord, error) {
	f.beforeCalls++
	var best *domain.AlmanacRecord
	for i := range f.records {
		rec := &f.records[i]
		if rec.SolarDate.Before(solarDate) && (best == nil || rec.SolarDate.After(best.SolarDate)) {
			best = rec
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	rec := *best
	return &rec, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// fakeUserRepo records the last persisted baseline.
type fakeUserRepo struct {
	users       map[string]*domain.User
	savedUserID int64
	savedBase   domain.ElementDistribution
	savedSky    domain.Stem
	savedGround domain.Branch
	saveCalls   int
}

func (f *fakeUserRepo) GetByUID(_ context.Context, uid string) (*domain.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateBaseline(_ context.Context, user *domain.User, baseline domain.ElementDistribution, daySky domain.Stem, dayGround domain.Branch) error {
	f.saveCalls++
	f.savedUserID = user.ID
	f.savedBase = baseline
	f.savedSky = daySky
	f.savedGround = dayGround
	return nil
}

// fakeCache is a TTL-less in-memory cache.
type fakeCache struct {
	data map[string]string
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.sets++
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.data[key]
	return ok, nil
}

func (f *fakeCache) Close() error { return nil }

func newTestService(almanac *fakeAlmanacRepo, users *fakeUserRepo, c *fakeCache) *Service {
	if almanac == nil {
		almanac = &fakeAlmanacRepo{}
	}
	if users == nil {
		users = &fakeUserRepo{users: map[string]*domain.User{}}
	}
	if c == nil {
		c = newFakeCache()
	}
	return New(almanac, users, c, slog.Default())
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clock(h, m int) *domain.ClockTime {
	return &domain.ClockTime{Hour: h, Minute: m}
}
