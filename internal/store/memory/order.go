package memory

import (
	"context"
	"sort"
	"time"

	"github.com/MikeMC777/campus-eats/internal/order"
)

type OrderRepo struct{ db *DB }

func (r *OrderRepo) Create(_ context.Context, o *order.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.orders[o.ID]; ok {
		return order.ErrExists
	}
	r.db.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*order.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	o, ok := r.db.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepo) list(keep func(*order.Order) bool) []order.Order {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []order.Order{}
	for _, o := range r.db.orders {
		if keep(o) {
			out = append(out, *cloneOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *OrderRepo) ListByStudent(_ context.Context, studentID string) ([]order.Order, error) {
	return r.list(func(o *order.Order) bool { return o.StudentID == studentID }), nil
}

func (r *OrderRepo) ListByStall(_ context.Context, stallID string) ([]order.Order, error) {
	return r.list(func(o *order.Order) bool { return o.StallID == stallID }), nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id string, from, to order.Status, message string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	if o.Status != from {
		return order.ErrStatusConflict
	}
	o.Status = to
	o.StatusMessage = message
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *OrderRepo) Delete(_ context.Context, id string, owner order.Owner) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok || !owner.Owns(o) {
		return false, nil
	}
	delete(r.db.orders, id)
	return true, nil
}
