package saju

import (
	"log/slog"

	"github.com/bap-pick/bab-back/internal/ports/cache"
	"github.com/bap-pick/bab-back/internal/ports/repository"
)

// Service computes four-pillar charts and the derived five-element readings.
type Service struct {
	AlmanacRepo repository.IAlmanacRepo
	UserRepo    repository.IUserRepo
	Cache       cache.Cache
	Log         *slog.Logger
}

// New creates the analysis service.
func New(
	almanacRepo repository.IAlmanacRepo,
	userRepo repository.IUserRepo,
	c cache.Cache,
	log *slog.Logger,
) *Service {
	return &Service{
		AlmanacRepo: almanacRepo,
		UserRepo:    userRepo,
		Cache:       c,
		Log:         log,
	}
}
