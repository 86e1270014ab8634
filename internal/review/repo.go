// Package review stores reviews and keeps stall and menu item ratings current.
package review

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("review not found")

type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	// Update replaces rating, text, images and updatedAt.
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id string) (bool, error)
	// ListByStall returns newest first; an empty menuItemID lists every review of the stall.
	ListByStall(ctx context.Context, stallID, menuItemID string) ([]Review, error)
}
