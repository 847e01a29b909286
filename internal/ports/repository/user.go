package repository

import (
	"context"

	"github.com/bap-pick/bab-back/internal/domain"
)

// IUserRepo is the user persistence surface used by the calculation and chat
// layers. Account CRUD lives in the excluded admin layer.
type IUserRepo interface {
	GetByUID(ctx context.Context, uid string) (*domain.User, error)
	// UpdateBaseline persists the recomputed five-element baseline together
	// with the resolved day pillar.
	UpdateBaseline(ctx context.Context, user *domain.User, baseline domain.ElementDistribution, daySky domain.Stem, dayGround domain.Branch) error
}
