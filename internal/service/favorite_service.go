package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dom/pitcher-favorites/internal/domain"
	"github.com/dom/pitcher-favorites/internal/metrics"
	"github.com/dom/pitcher-favorites/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reasons reported for names a bulk save could not store.
const (
	ReasonBlankName     = "blank name"
	ReasonStoreFailure  = "could not save favorite"
	ReasonPitcherFailed = "could not resolve pitcher"
)

type FavoriteService struct {
	repos   *repository.Repositories
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewFavoriteService(repos *repository.Repositories, log *zap.Logger, m *metrics.Metrics) *FavoriteService {
	return &FavoriteService{
		repos:   repos,
		log:     log,
		metrics: m,
	}
}

// Actor is the authenticated caller of a favorites operation.
type Actor struct {
	UserID   uuid.UUID
	Username string
	IsAdmin  bool
}

// ResolveTarget returns the user whose favorites an operation acts on. An
// empty username (or the caller's own) means the caller; anyone else needs
// admin rights.
func (s *FavoriteService) ResolveTarget(ctx context.Context, actor Actor, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)

	if username == "" || username == actor.Username {
		user, err := s.repos.User.GetByID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrUserNotFound
			}
			return nil, err
		}
		return user, nil
	}

	if !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}

	user, err := s.repos.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns the user's favorites, oldest first. A user without favorites
// gets an empty slice.
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]*domain.FavoritePitcher, error) {
	favorites, err := s.repos.Favorite.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if favorites == nil {
		favorites = []*domain.FavoritePitcher{}
	}
	return favorites, nil
}

type FavoritesSummary struct {
	Username  string
	Favorites []*domain.FavoritePitcher
	Count     int
}

func (s *FavoriteService) ListWithCount(ctx context.Context, user *domain.User) (*FavoritesSummary, error) {
	favorites, err := s.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &FavoritesSummary{
		Username:  user.Username,
		Favorites: favorites,
		Count:     len(favorites),
	}, nil
}

// Add favorites one existing pitcher. Unknown pitchers are not created here.
func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, ref domain.PitcherRef) (*domain.FavoritePitcher, error) {
	if ref.ID == nil && strings.TrimSpace(ref.Name) == "" {
		return nil, domain.ErrMissingPitcherRef
	}

	var favorite *domain.FavoritePitcher
	err := s.repos.Tx.RunInTx(ctx, func(tx *repository.Repositories) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}

		pitcher, err := resolvePitcher(ctx, tx.Pitcher, ref)
		if err != nil {
			return err
		}

		favorite = &domain.FavoritePitcher{
			ID:        uuid.New(),
			UserID:    userID,
			PitcherID: pitcher.ID,
			CreatedAt: time.Now(),
		}
		if err := tx.Favorite.Create(ctx, favorite); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrFavoriteExists
			}
			return fmt.Errorf("create favorite: %w", err)
		}
		favorite.Pitcher = pitcher
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.FavoritesSaved.Inc()
	return favorite, nil
}

// Replace swaps the user's favorites for the named pitchers in a single
// transaction. Existing favorites are always removed, so an empty list
// clears them. Repeated names are saved once, at their last position.
// Unknown names get a placeholder pitcher. A name that cannot be saved is
// reported in Failed and does not abort the rest.
func (s *FavoriteService) Replace(ctx context.Context, userID uuid.UUID, names []string) (*domain.SaveResult, error) {
	var (
		removed      int64
		placeholders int
	)
	result := &domain.SaveResult{Saved: []string{}, Failed: []domain.SaveFailure{}}

	err := s.repos.Tx.RunInTx(ctx, func(tx *repository.Repositories) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}

		var err error
		removed, err = tx.Favorite.DeleteByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("clear favorites: %w", err)
		}

		for _, name := range domain.DedupeNames(names) {
			if strings.TrimSpace(name) == "" {
				result.Failed = append(result.Failed, domain.SaveFailure{Name: name, Reason: ReasonBlankName})
				continue
			}

			created, reason, err := s.saveOne(ctx, tx, userID, name)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.log.Warn("bulk save item failed",
					zap.String("user_id", userID.String()),
					zap.String("player_name", name),
					zap.Error(err),
				)
				result.Failed = append(result.Failed, domain.SaveFailure{Name: name, Reason: reason})
				continue
			}
			if created {
				placeholders++
			}
			result.Saved = append(result.Saved, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Count = len(result.Saved)

	s.metrics.FavoritesDeleted.WithLabelValues(metrics.DeleteModeBulk).Add(float64(removed))
	s.metrics.FavoritesSaved.Add(float64(result.Count))
	s.metrics.FavoritesSaveFailures.Add(float64(len(result.Failed)))
	s.metrics.PlaceholdersCreated.Add(float64(placeholders))

	s.log.Info("favorites replaced",
		zap.String("user_id", userID.String()),
		zap.Int64("removed", removed),
		zap.Int("saved", result.Count),
		zap.Int("failed", len(result.Failed)),
		zap.Int("placeholders", placeholders),
	)
	return result, nil
}

// saveOne stores a single favorite inside a savepoint so a failure leaves
// the outer transaction usable. It reports whether a placeholder pitcher was
// created and, on error, the reason to show the caller.
func (s *FavoriteService) saveOne(ctx context.Context, tx *repository.Repositories, userID uuid.UUID, name string) (bool, string, error) {
	var (
		created bool
		reason  string
	)

	err := tx.Tx.RunInTx(ctx, func(item *repository.Repositories) error {
		pitcher, err := item.Pitcher.GetByName(ctx, name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pitcher = domain.NewPlaceholderPitcher(name)
			created, err = item.Pitcher.CreateIfAbsent(ctx, pitcher)
			if created {
				s.log.Debug("placeholder pitcher created", zap.String("player_name", name))
			}
		}
		if err != nil {
			reason = ReasonPitcherFailed
			return err
		}

		err = item.Favorite.Create(ctx, &domain.FavoritePitcher{
			ID:        uuid.New(),
			UserID:    userID,
			PitcherID: pitcher.ID,
			CreatedAt: time.Now(),
		})
		if err != nil {
			reason = ReasonStoreFailure
			return err
		}
		return nil
	})
	if err != nil {
		return false, reason, err
	}
	return created, "", nil
}

// DeleteByName removes the favorite whose pitcher best matches name: exact,
// then case-insensitive, then case-insensitive with whitespace collapsed.
func (s *FavoriteService) DeleteByName(ctx context.Context, userID uuid.UUID, name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.ErrBlankPlayerName
	}

	favorites, err := s.repos.Favorite.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list favorites: %w", err)
	}

	match := domain.MatchFavoriteByName(favorites, name)
	if match == nil {
		return domain.ErrFavoriteNotFound
	}

	deleted, err := s.repos.Favorite.DeleteForUser(ctx, match.ID, userID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if deleted == 0 {
		return domain.ErrFavoriteNotFound
	}

	s.metrics.FavoritesDeleted.WithLabelValues(metrics.DeleteModeName).Inc()
	return nil
}

// ClearAll deletes every favorite of the user and returns how many there were.
func (s *FavoriteService) ClearAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	deleted, err := s.repos.Favorite.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear favorites: %w", err)
	}

	s.metrics.FavoritesDeleted.WithLabelValues(metrics.DeleteModeClear).Add(float64(deleted))
	return deleted, nil
}

// Delete removes one favorite. A favorite owned by another user is reported
// as not found.
func (s *FavoriteService) Delete(ctx context.Context, userID, favoriteID uuid.UUID) error {
	deleted, err := s.repos.Favorite.DeleteForUser(ctx, favoriteID, userID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if deleted == 0 {
		return domain.ErrFavoriteNotFound
	}

	s.metrics.FavoritesDeleted.WithLabelValues(metrics.DeleteModeID).Inc()
	return nil
}

func lockUser(ctx context.Context, tx *repository.Repositories, userID uuid.UUID) error {
	if _, err := tx.User.LockByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("lock user: %w", err)
	}
	return nil
}

func resolvePitcher(ctx context.Context, repo repository.PitcherRepository, ref domain.PitcherRef) (*domain.Pitcher, error) {
	var (
		pitcher *domain.Pitcher
		err     error
	)
	if ref.ID != nil {
		pitcher, err = repo.GetByID(ctx, *ref.ID)
	} else {
		pitcher, err = repo.GetByName(ctx, ref.Name)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPitcherNotFound
		}
		return nil, fmt.Errorf("get pitcher: %w", err)
	}
	return pitcher, nil
}
