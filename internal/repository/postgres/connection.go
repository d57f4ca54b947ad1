package postgres

import (
	"context"

	"github.com/dom/pitcher-favorites/internal/domain"
	"github.com/dom/pitcher-favorites/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table the service owns, in migration order.
var Models = []interface{}{
	&domain.User{},
	&domain.UserSession{},
	&domain.Pitcher{},
	&domain.FavoritePitcher{},
}

func NewConnection(databaseURL string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:     NewUserRepository(db),
		Session:  NewSessionRepository(db),
		Pitcher:  NewPitcherRepository(db),
		Favorite: NewFavoriteRepository(db),
		Tx:       &txRunner{db: db},
	}
}

type txRunner struct {
	db *gorm.DB
}

func (t *txRunner) RunInTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
