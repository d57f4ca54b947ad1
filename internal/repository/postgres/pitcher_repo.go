package postgres

import (
	"context"
	"strings"

	"github.com/dom/pitcher-favorites/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscaper makes LIKE wildcards in user input match literally. Backslash
// is the default escape character for ILIKE in Postgres.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type pitcherRepository struct {
	db *gorm.DB
}

func NewPitcherRepository(db *gorm.DB) *pitcherRepository {
	return &pitcherRepository{db: db}
}

func (r *pitcherRepository) List(ctx context.Context, filter domain.PitcherFilter) ([]*domain.Pitcher, error) {
	q := r.db.WithContext(ctx).Model(&domain.Pitcher{})

	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
		q = q.Where("player_name ILIKE ? OR team_name ILIKE ?", pattern, pattern)
	}
	if filter.TeamName != "" {
		q = q.Where("team_name = ?", filter.TeamName)
	}
	if filter.PitchType != "" {
		q = q.Where("pitch_type = ?", filter.PitchType)
	}
	if filter.Throws != "" {
		q = q.Where("throws = ?", filter.Throws)
	}

	var pitchers []*domain.Pitcher
	err := q.Order("player_name ASC").Find(&pitchers).Error
	if err != nil {
		return nil, err
	}
	return pitchers, nil
}

func (r *pitcherRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pitcher, error) {
	var pitcher domain.Pitcher
	err := r.db.WithContext(ctx).First(&pitcher, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pitcher, nil
}

func (r *pitcherRepository) GetByName(ctx context.Context, name string) (*domain.Pitcher, error) {
	var pitcher domain.Pitcher
	err := r.db.WithContext(ctx).First(&pitcher, "player_name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &pitcher, nil
}

func (r *pitcherRepository) CreateIfAbsent(ctx context.Context, pitcher *domain.Pitcher) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_name"}},
			DoNothing: true,
		}).
		Create(pitcher)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	existing, err := r.GetByName(ctx, pitcher.PlayerName)
	if err != nil {
		return false, err
	}
	*pitcher = *existing
	return false, nil
}
