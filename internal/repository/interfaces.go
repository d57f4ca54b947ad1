package repository

import (
	"context"

	"github.com/dom/pitcher-favorites/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// LockByID loads the user with a row lock held until the surrounding
	// transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserSession, error)
	// Delete reports how many sessions it removed, 0 when another caller
	// got there first.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type PitcherRepository interface {
	List(ctx context.Context, filter domain.PitcherFilter) ([]*domain.Pitcher, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pitcher, error)
	GetByName(ctx context.Context, name string) (*domain.Pitcher, error)
	// CreateIfAbsent inserts pitcher unless one with the same player name
	// exists. It reports whether a row was inserted; either way pitcher is
	// refreshed from the stored row.
	CreateIfAbsent(ctx context.Context, pitcher *domain.Pitcher) (bool, error)
}

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *domain.FavoritePitcher) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.FavoritePitcher, error)
	// DeleteForUser removes the favorite only when it belongs to userID and
	// returns the number of rows deleted.
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) (int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// TxRunner runs fn inside a database transaction. fn receives repositories
// bound to that transaction; calling RunInTx on them again opens a nested
// transaction (a savepoint).
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(repos *Repositories) error) error
}

type Repositories struct {
	User     UserRepository
	Session  SessionRepository
	Pitcher  PitcherRepository
	Favorite FavoriteRepository
	Tx       TxRunner
}
