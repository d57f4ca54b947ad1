package domain

import "errors"

// Lookup errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPitcherNotFound  = errors.New("pitcher not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// Favorite errors
var (
	ErrFavoriteExists    = errors.New("pitcher is already a favorite")
	ErrBlankPlayerName   = errors.New("player name is required")
	ErrMissingPitcherRef = errors.New("pitcher id or player name is required")
)

// ErrForbidden is returned when a caller acts on another user's data without
// admin rights.
var ErrForbidden = errors.New("forbidden")
