package service

import (
	"github.com/dom/pitcher-favorites/internal/config"
	"github.com/dom/pitcher-favorites/internal/metrics"
	"github.com/dom/pitcher-favorites/internal/repository"
	"go.uber.org/zap"
)

type Services struct {
	Auth     *AuthService
	Pitcher  *PitcherService
	Favorite *FavoriteService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *Services {
	return &Services{
		Auth:     NewAuthService(repos.User, repos.Session, cfg),
		Pitcher:  NewPitcherService(repos.Pitcher, log, m),
		Favorite: NewFavoriteService(repos, log, m),
	}
}
