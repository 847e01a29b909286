package restaurants

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bap-pick/bab-back/internal/domain"
)

type fakeMatcher struct {
	candidates []domain.RestaurantCandidate
	err        error
}

func (f *fakeMatcher) MatchByDish(context.Context, string, float64, float64, float64) ([]domain.RestaurantCandidate, error) {
	return f.candidates, f.err
}

func (f *fakeMatcher) Nearby(context.Context, float64, float64, float64, int) ([]domain.RestaurantCandidate, error) {
	return f.candidates, f.err
}

func nearbyRouter(matcher *fakeMatcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	New(matcher, nil, nil, nil, slog.Default()).RegisterRoutes(router)
	return router
}

func doNearby(t *testing.T, router *gin.Engine, query string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/restaurants/nearby?"+query, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNearby_ReturnsListWithCount(t *testing.T) {
	matcher := &fakeMatcher{candidates: []domain.RestaurantCandidate{
		{ID: 1, Name: "찌개명가", Category: "한식", ReviewCount: 120},
		{ID: 2, Name: "백반집", Category: "한식", ReviewCount: 40},
	}}
	rec := doNearby(t, nearbyRouter(matcher), "latitude=37.5&longitude=127.0")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Restaurants []domain.RestaurantCandidate `json:"restaurants"`
		Count       int                          `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Restaurants, 2)
	assert.Equal(t, 2, body.Count)
}

func TestNearby_EmptyResultIsAnEmptyListWithZeroCount(t *testing.T) {
	rec := doNearby(t, nearbyRouter(&fakeMatcher{}), "latitude=37.5&longitude=127.0")
	require.Equal(t, http.StatusOK, rec.Code)

	// Clients get a list and a count even when nothing matched, never null.
	assert.JSONEq(t, `{"restaurants": [], "count": 0}`, rec.Body.String())
}

func TestNearby_RejectsMalformedCoordinates(t *testing.T) {
	rec := doNearby(t, nearbyRouter(&fakeMatcher{}), "latitude=abc&longitude=127.0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNearby_GeoOutageIsServiceUnavailable(t *testing.T) {
	matcher := &fakeMatcher{err: domain.ErrExternalService}
	rec := doNearby(t, nearbyRouter(matcher), "latitude=37.5&longitude=127.0")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
