package userRepo

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bap-pick/bab-back/internal/domain"
)

type fakeInnerRepo struct {
	users    map[string]*domain.User
	getCalls int
	updates  int
}

func (f *fakeInnerRepo) GetByUID(_ context.Context, uid string) (*domain.User, error) {
	f.getCalls++
	u, ok := f.users[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeInnerRepo) UpdateBaseline(_ context.Context, _ *domain.User, _ domain.ElementDistribution, _ domain.Stem, _ domain.Branch) error {
	f.updates++
	return nil
}

type fakeCache struct {
	data    map[string]string
	deletes []string
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
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.data[key]
	return ok, nil
}

func (f *fakeCache) Close() error { return nil }

func cachedFixture() (*fakeInnerRepo, *fakeCache, *CachedRepository) {
	inner := &fakeInnerRepo{users: map[string]*domain.User{
		"uid-1": {ID: 1, UID: "uid-1", Nickname: "철수", Calendar: domain.CalendarSolar},
	}}
	c := newFakeCache()
	repo := NewCached(inner, c, slog.Default()).(*CachedRepository)
	return inner, c, repo
}

func TestCachedGetByUID_SecondReadHitsCache(t *testing.T) {
	inner, _, repo := cachedFixture()

	first, err := repo.GetByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	second, err := repo.GetByUID(context.Background(), "uid-1")
	require.NoError(t, err)

	assert.Equal(t, first.UID, second.UID)
	assert.Equal(t, 1, inner.getCalls)
}

func TestCachedGetByUID_MissPassesThrough(t *testing.T) {
	_, _, repo := cachedFixture()

	_, err := repo.GetByUID(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCachedGetByUID_CorruptEntryReloads(t *testing.T) {
	inner, c, repo := cachedFixture()
	c.data[fmt.Sprintf(profileKeyFmt, "uid-1")] = "{not json"

	got, err := repo.GetByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", got.UID)
	assert.Equal(t, 1, inner.getCalls)
}

func TestCachedUpdateBaseline_InvalidatesProfile(t *testing.T) {
	inner, c, repo := cachedFixture()

	user, err := repo.GetByUID(context.Background(), "uid-1")
	require.NoError(t, err)

	err = repo.UpdateBaseline(context.Background(), user, domain.ElementDistribution{Wood: 100}, "갑", "자")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.updates)
	assert.Contains(t, c.deletes, fmt.Sprintf(profileKeyFmt, "uid-1"))

	// Next read goes back to the store.
	_, err = repo.GetByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.getCalls)
}
