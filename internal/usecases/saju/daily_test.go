package saju

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bap-pick/bab-back/internal/domain"
)

func baselineUser() *domain.User {
	sky := domain.Stem("갑")
	ground := domain.Branch("자")
	return &domain.User{
		ID:  7,
		UID: "uid-7",
		Baseline: domain.ElementDistribution{
			Wood: 20, Fire: 20, Earth: 20, Metal: 20, Water: 20,
		},
		DaySky:    &sky,
		DayGround: &ground,
	}
}

func todayRecord(now time.Time) domain.AlmanacRecord {
	return domain.AlmanacRecord{
		SolarDate: now,
		DaySky:    "갑", DayGround: "오",
		YearSky: "병", YearGround: "오", MonthSky: "병", MonthGround: "신",
	}
}

func TestTodayReading_BlendsDayPillar(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	almanac := &fakeAlmanacRepo{records: []domain.AlmanacRecord{todayRecord(now)}}
	svc := newTestService(almanac, nil, nil)

	reading, err := svc.TodayReading(context.Background(), baselineUser(), now)
	require.NoError(t, err)

	// Baseline 20 everywhere, +20 wood (갑) +20 fire (오), rescaled to 100.
	assert.InDelta(t, 28.6, reading.Distribution.Wood, 0.05)
	assert.InDelta(t, 28.6, reading.Distribution.Fire, 0.05)
	assert.InDelta(t, 14.3, reading.Distribution.Earth, 0.05)
	assert.InDelta(t, 100.0, reading.Distribution.Sum(), 0.3)

	assert.Equal(t, domain.OhengSkewed, reading.Classification.Type)
	assert.Equal(t, "비견", reading.Relation)
	assert.Equal(t, domain.Stem("갑"), reading.DaySky)
	assert.Equal(t, domain.Branch("오"), reading.DayGround)
}

func TestTodayReading_SecondCallHitsCache(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	almanac := &fakeAlmanacRepo{records: []domain.AlmanacRecord{todayRecord(now)}}
	c := newFakeCache()
	svc := newTestService(almanac, nil, c)

	first, err := svc.TodayReading(context.Background(), baselineUser(), now)
	require.NoError(t, err)
	callsAfterFirst := almanac.solarCalls

	second, err := svc.TodayReading(context.Background(), baselineUser(), now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, almanac.solarCalls, "cached reading must not hit the almanac")
}

func TestBaselineFor_ComputesAndPersistsOnce(t *testing.T) {
	birth := "12:00"
	user := &domain.User{
		ID:        3,
		UID:       "uid-3",
		BirthDate: date(1995, time.May, 10),
		BirthTime: &birth,
		Calendar:  domain.CalendarSolar,
	}
	almanac := &fakeAlmanacRepo{records: []domain.AlmanacRecord{{
		SolarDate: date(1995, time.May, 10),
		YearSky:   "을", YearGround: "해",
		MonthSky: "신", MonthGround: "사",
		DaySky: "갑", DayGround: "자",
	}}}
	users := &fakeUserRepo{users: map[string]*domain.User{"uid-3": user}}
	svc := newTestService(almanac, users, nil)

	baseline, daySky, err := svc.BaselineFor(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, domain.Stem("갑"), daySky)
	assert.InDelta(t, 100.0, baseline.Sum(), 0.3)
	assert.Equal(t, 1, users.saveCalls)
	assert.Equal(t, int64(3), users.savedUserID)
	assert.Equal(t, domain.Stem("갑"), users.savedSky)

	// The user value now carries the baseline, so the next call skips both
	// the almanac and the persistence write.
	_, _, err = svc.BaselineFor(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, 1, users.saveCalls)
}

func TestBaselineFor_ReturnsStoredBaseline(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*domain.User{}}
	svc := newTestService(nil, users, nil)

	user := baselineUser()
	baseline, daySky, err := svc.BaselineFor(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, user.Baseline, baseline)
	assert.Equal(t, domain.Stem("갑"), daySky)
	assert.Zero(t, users.saveCalls)
}

func TestTodayReading_SharesIljinAcrossUsers(t *testing.T) {
	now := time.Date(2026, time.August, 29, 9, 0, 0, 0, time.UTC)
	almanac := &fakeAlmanacRepo{records: []domain.AlmanacRecord{todayRecord(now)}}
	c := newFakeCache()
	svc := newTestService(almanac, nil, c)

	_, err := svc.TodayReading(context.Background(), baselineUser(), now)
	require.NoError(t, err)

	other := baselineUser()
	other.ID = 8
	other.UID = "uid-8"
	_, err = svc.TodayReading(context.Background(), other, now)
	require.NoError(t, err)

	assert.Equal(t, 1, almanac.solarCalls, "iljin lookup must be shared through the cache")
}

func TestUntilMidnight(t *testing.T) {
	now := time.Date(2026, time.August, 29, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Hour, untilMidnight(now))
}
