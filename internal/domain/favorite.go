package domain

import (
	"time"

	"github.com/google/uuid"
)

// FavoritePitcher links one user to one pitcher. The (user, pitcher) pair is
// unique.
type FavoritePitcher struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_pitcher,priority:1"`
	PitcherID uuid.UUID `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_pitcher,priority:2;index"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`

	// Relations
	User    *User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Pitcher *Pitcher `json:"pitcher,omitempty" gorm:"foreignKey:PitcherID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (FavoritePitcher) TableName() string {
	return "favorite_pitchers"
}

// PitcherRef identifies a pitcher either by ID or by exact player name.
type PitcherRef struct {
	ID   *uuid.UUID
	Name string
}

// SaveFailure records why one name in a bulk save produced no favorite.
type SaveFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// SaveResult summarises a bulk replace.
type SaveResult struct {
	Saved  []string      `json:"saved"`
	Count  int           `json:"count"`
	Failed []SaveFailure `json:"failed"`
}
