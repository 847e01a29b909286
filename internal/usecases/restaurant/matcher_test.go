package restaurant

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/geo"
	"github.com/bap-pick/bab-back/internal/ports/search"
)

type fakeGeo struct {
	matches []geo.Match
	err     error
	calls   int
}

func (f *fakeGeo) Load(context.Context, []domain.RestaurantLocation) error { return nil }

func (f *fakeGeo) Upsert(context.Context, domain.RestaurantLocation) error { return nil }

func (f *fakeGeo) Nearby(_ context.Context, _, _, _ float64, _ int) ([]geo.Match, error) {
	f.calls++
	return f.matches, f.err
}

type fakeSearcher struct {
	matches []search.Match
	err     error
	calls   int
}

func (f *fakeSearcher) SearchMenus(_ context.Context, _ string, _ int) ([]search.Match, error) {
	f.calls++
	return f.matches, f.err
}

type fakeSummaries struct {
	byID map[int64]domain.RestaurantSummary
	err  error
}

func (f *fakeSummaries) SetSummaries(context.Context, []domain.RestaurantSummary) error { return nil }

func (f *fakeSummaries) GetSummaries(_ context.Context, ids []int64) (map[int64]domain.RestaurantSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[int64]domain.RestaurantSummary{}
	for _, id := range ids {
		if s, ok := f.byID[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func summary(id int64, name string, reviews int) domain.RestaurantSummary {
	return domain.RestaurantSummary{
		ID: id, Name: name, Category: "한식",
		Rating: 4.2, ReviewCount: reviews,
		Latitude: 37.5 + float64(id)*0.001, Longitude: 127.0,
	}
}

func newTestMatcher(g *fakeGeo, s *fakeSearcher, c *fakeSummaries) *Matcher {
	return New(g, s, c, slog.Default())
}

func TestMatchByDish_EmptyRadiusSkipsVectorSearch(t *testing.T) {
	g := &fakeGeo{}
	s := &fakeSearcher{}
	m := newTestMatcher(g, s, &fakeSummaries{})

	got, err := m.MatchByDish(context.Background(), "김치찌개", 127.0, 37.5, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, s.calls, "vector index must not be queried for an empty radius")
}

func TestMatchByDish_IntersectsGeoAndLiteralMatch(t *testing.T) {
	g := &fakeGeo{matches: []geo.Match{
		{RestaurantID: 1, DistanceKm: 0.4},
		{RestaurantID: 2, DistanceKm: 0.9},
	}}
	s := &fakeSearcher{matches: []search.Match{
		{RestaurantID: 1, Content: "김치찌개 전문점, 묵은지 김치찌개", Score: 0.91},
		{RestaurantID: 2, Content: "된장찌개와 제육볶음", Score: 0.88},
		{RestaurantID: 3, Content: "김치찌개", Score: 0.95}, // outside the radius
	}}
	c := &fakeSummaries{byID: map[int64]domain.RestaurantSummary{
		1: summary(1, "금돼지식당", 120),
		2: summary(2, "백반집", 80),
		3: summary(3, "먼집", 10),
	}}
	m := newTestMatcher(g, s, c)

	got, err := m.MatchByDish(context.Background(), "김치찌개", 127.0, 37.5, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, 0.4, got[0].DistanceKm)
	require.NotNil(t, got[0].Score)
	assert.Equal(t, 0.91, *got[0].Score)
}

func TestMatchByDish_NormalizesWhitespace(t *testing.T) {
	g := &fakeGeo{matches: []geo.Match{{RestaurantID: 1, DistanceKm: 0.4}}}
	s := &fakeSearcher{matches: []search.Match{
		{RestaurantID: 1, Content: "묵은지 김치 찌개", Score: 0.9},
	}}
	c := &fakeSummaries{byID: map[int64]domain.RestaurantSummary{1: summary(1, "찌개집", 50)}}
	m := newTestMatcher(g, s, c)

	got, err := m.MatchByDish(context.Background(), "김치찌개", 127.0, 37.5, 2)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMatchByDish_RanksByDistanceAndCapsAtThree(t *testing.T) {
	g := &fakeGeo{matches: []geo.Match{
		{RestaurantID: 1, DistanceKm: 1.4},
		{RestaurantID: 2, DistanceKm: 0.2},
		{RestaurantID: 3, DistanceKm: 0.8},
		{RestaurantID: 4, DistanceKm: 0.5},
	}}
	var hits []search.Match
	for id := int64(1); id <= 4; id++ {
		hits = append(hits, search.Match{RestaurantID: id, Content: "김치찌개", Score: 0.9})
	}
	c := &fakeSummaries{byID: map[int64]domain.RestaurantSummary{
		1: summary(1, "a", 1), 2: summary(2, "b", 2), 3: summary(3, "c", 3), 4: summary(4, "d", 4),
	}}
	m := newTestMatcher(g, &fakeSearcher{matches: hits}, c)

	got, err := m.MatchByDish(context.Background(), "김치찌개", 127.0, 37.5, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{2, 4, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestMatchByDish_SkipsCandidatesWithoutCoordinates(t *testing.T) {
	g := &fakeGeo{matches: []geo.Match{{RestaurantID: 1, DistanceKm: 0.3}}}
	s := &fakeSearcher{matches: []search.Match{{RestaurantID: 1, Content: "김치찌개", Score: 0.9}}}
	noCoords := summary(1, "좌표없는집", 10)
	noCoords.Latitude, noCoords.Longitude = 0, 0
	m := newTestMatcher(g, s, &fakeSummaries{byID: map[int64]domain.RestaurantSummary{1: noCoords}})

	got, err := m.MatchByDish(context.Background(), "김치찌개", 127.0, 37.5, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMatchByDish_GeoFailureIsAnError(t *testing.T) {
	g := &fakeGeo{err: errors.New("redis down")}
	m := newTestMatcher(g, &fakeSearcher{}, &fakeSummaries{})

	_, err := m.MatchByDish(context.Background(), "김치찌개", 127.0, 37.5, 2)
	assert.Error(t, err)
}

func TestNearby_RanksByReviewCount(t *testing.T) {
	g := &fakeGeo{matches: []geo.Match{
		{RestaurantID: 1, DistanceKm: 0.2},
		{RestaurantID: 2, DistanceKm: 0.4},
		{RestaurantID: 3, DistanceKm: 0.1},
	}}
	c := &fakeSummaries{byID: map[int64]domain.RestaurantSummary{
		1: summary(1, "a", 15), 2: summary(2, "b", 300), 3: summary(3, "c", 40),
	}}
	m := newTestMatcher(g, &fakeSearcher{}, c)

	got, err := m.Nearby(context.Background(), 127.0, 37.5, 2, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
	assert.Nil(t, got[0].Score)
}

func TestNearby_EmptyRadius(t *testing.T) {
	m := newTestMatcher(&fakeGeo{}, &fakeSearcher{}, &fakeSummaries{})

	got, err := m.Nearby(context.Background(), 127.0, 37.5, 2, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
