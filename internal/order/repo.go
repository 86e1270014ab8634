// Package order holds the single order record shared by the student and stall views.
package order

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("order not found")
	ErrExists         = errors.New("order already exists")
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// Owner scopes a removal to the student or stall that holds the order. Empty fields are not checked.
type Owner struct {
	StudentID string
	StallID   string
}

func (o Owner) Owns(ord *Order) bool {
	if o.StudentID != "" && ord.StudentID != o.StudentID {
		return false
	}
	if o.StallID != "" && ord.StallID != o.StallID {
		return false
	}
	return true
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	// ListByStudent and ListByStall return newest first.
	ListByStudent(ctx context.Context, studentID string) ([]Order, error)
	ListByStall(ctx context.Context, stallID string) ([]Order, error)
	// UpdateStatus writes to only while the stored status is still from; otherwise ErrStatusConflict.
	UpdateStatus(ctx context.Context, id string, from, to Status, message string) error
	Delete(ctx context.Context, id string, owner Owner) (bool, error)
}
