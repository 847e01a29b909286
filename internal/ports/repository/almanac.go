package repository

import (
	"context"
	"time"

	"github.com/bap-pick/bab-back/internal/domain"
)

// IAlmanacRepo looks up the manse almanac reference table. Records are
// read-only; a missing record is domain.ErrNotFound and is never retried.
type IAlmanacRepo interface {
	GetBySolarDate(ctx context.Context, date time.Time) (*domain.AlmanacRecord, error)
	GetByLunarDate(ctx context.Context, date time.Time, leapMonth bool) (*domain.AlmanacRecord, error)
	// GetLatestBefore returns the chronologically nearest record whose solar
	// date precedes the given one. Used for the solar-term correction.
	GetLatestBefore(ctx context.Context, solarDate time.Time) (*domain.AlmanacRecord, error)
}
