// Package stall holds the stall-owner account, its menu and its rating counters.
package stall

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("stall not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrMenuItemNotFound = errors.New("menu item not found")
)

type Repository interface {
	Create(ctx context.Context, s *Stall) error
	GetByID(ctx context.Context, id string) (*Stall, error)
	GetByEmail(ctx context.Context, email string) (*Stall, error)
	List(ctx context.Context) ([]Stall, error)
	Delete(ctx context.Context, id string) (bool, error)

	AddMenuItem(ctx context.Context, stallID string, item MenuItem) error
	// UpdateMenuItem replaces the item with the same ID.
	UpdateMenuItem(ctx context.Context, stallID string, item MenuItem) error
	DeleteMenuItem(ctx context.Context, stallID, itemID string) error

	// IncRating atomically adds (sum, count) to the stall and, when menuItem names an item, to that item.
	IncRating(ctx context.Context, stallID, menuItem string, sum, count int) error
	// SetRatings overwrites the counters. items is keyed by menu item name; items missing from it are zeroed.
	SetRatings(ctx context.Context, stallID string, total Rating, items map[string]Rating) error
}
