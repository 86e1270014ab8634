// Package student holds student accounts, their theme preference and favorites.
package student

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("student not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrDuplicateFavorite = errors.New("already in favorites")
)

type Repository interface {
	Create(ctx context.Context, s *Student) error
	GetByID(ctx context.Context, id string) (*Student, error)
	GetByEmail(ctx context.Context, email string) (*Student, error)
	// NamesByID resolves display names; unknown ids are left out of the map.
	NamesByID(ctx context.Context, ids []string) (map[string]string, error)
	SetTheme(ctx context.Context, id string, theme Theme) error

	// AddFavorite appends f unless an existing entry Blocks it, as one atomic step.
	AddFavorite(ctx context.Context, id string, f Favorite) error
	// RemoveFavorites deletes every entry RemovedBy (stallID, menuItemID).
	RemoveFavorites(ctx context.Context, id, stallID, menuItemID string) error
	PurgeStallFavorites(ctx context.Context, stallID string) (int64, error)
}
