package userRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bap-pick/bab-back/internal/domain"
	cachePorts "github.com/bap-pick/bab-back/internal/ports/cache"
	ports "github.com/bap-pick/bab-back/internal/ports/repository"
)

const (
	profileKeyFmt = "user:profile:%s"
	profileTTL    = time.Hour
)

// CachedRepository caches user profiles in front of the relational store.
// Baseline writes invalidate the cached profile so readers never see a
// stale stored analysis.
type CachedRepository struct {
	inner ports.IUserRepo
	cache cachePorts.Cache
	Log   *slog.Logger
}

// NewCached wraps a user repository with the profile cache.
func NewCached(inner ports.IUserRepo, c cachePorts.Cache, log *slog.Logger) ports.IUserRepo {
	return &CachedRepository{
		inner: inner,
		cache: c,
		Log:   log,
	}
}

func (r *CachedRepository) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	key := fmt.Sprintf(profileKeyFmt, uid)

	if raw, err := r.cache.Get(ctx, key); err == nil {
		var user domain.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			return &user, nil
		}
		// A corrupt entry is dropped and reloaded from the store.
		if err := r.cache.Delete(ctx, key); err != nil {
			r.Log.Warn("failed to drop corrupt profile cache entry", "error", err, "uid", uid)
		}
	}

	user, err := r.inner.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(user); err == nil {
		if err := r.cache.Set(ctx, key, string(raw), profileTTL); err != nil {
			r.Log.Warn("failed to cache user profile", "error", err, "uid", uid)
		}
	}

	return user, nil
}

func (r *CachedRepository) UpdateBaseline(ctx context.Context, user *domain.User, baseline domain.ElementDistribution, daySky domain.Stem, dayGround domain.Branch) error {
	if err := r.inner.UpdateBaseline(ctx, user, baseline, daySky, dayGround); err != nil {
		return err
	}

	key := fmt.Sprintf(profileKeyFmt, user.UID)
	if err := r.cache.Delete(ctx, key); err != nil {
		r.Log.Warn("failed to invalidate profile cache", "error", err, "uid", user.UID)
	}
	return nil
}
