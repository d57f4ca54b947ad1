package postgres

import (
	"context"

	"github.com/dom/pitcher-favorites/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *favoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *domain.FavoritePitcher) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.FavoritePitcher, error) {
	var favorites []*domain.FavoritePitcher
	err := r.db.WithContext(ctx).
		Preload("Pitcher").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

func (r *favoriteRepository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.FavoritePitcher{})
	return result.RowsAffected, result.Error
}

func (r *favoriteRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.FavoritePitcher{})
	return result.RowsAffected, result.Error
}
