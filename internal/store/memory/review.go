package memory

import (
	"context"
	"sort"

	"github.com/MikeMC777/campus-eats/internal/review"
)

type ReviewRepo struct{ db *DB }

func (r *ReviewRepo) Create(_ context.Context, rv *review.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reviews[rv.ID] = cloneReview(rv)
	return nil
}

func (r *ReviewRepo) GetByID(_ context.Context, id string) (*review.Review, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	rv, ok := r.db.reviews[id]
	if !ok {
		return nil, review.ErrNotFound
	}
	return cloneReview(rv), nil
}

func (r *ReviewRepo) Update(_ context.Context, rv *review.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.reviews[rv.ID]
	if !ok {
		return review.ErrNotFound
	}
	cur.Rating = rv.Rating
	cur.Review = rv.Review
	cur.Images = append([]string{}, rv.Images...)
	cur.UpdatedAt = rv.UpdatedAt
	return nil
}

func (r *ReviewRepo) Delete(_ context.Context, id string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reviews[id]; !ok {
		return false, nil
	}
	delete(r.db.reviews, id)
	return true, nil
}

func (r *ReviewRepo) ListByStall(_ context.Context, stallID, menuItemID string) ([]review.Review, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []review.Review{}
	for _, rv := range r.db.reviews {
		if rv.StallID != stallID || (menuItemID != "" && rv.MenuItemID != menuItemID) {
			continue
		}
		out = append(out, *cloneReview(rv))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
