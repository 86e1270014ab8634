package memory

import (
	"context"
	"sort"
	"time"

	"github.com/MikeMC777/campus-eats/internal/stall"
)

type StallRepo struct{ db *DB }

func (r *StallRepo) Create(_ context.Context, s *stall.Stall) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, cur := range r.db.stalls {
		if cur.Email == s.Email {
			return stall.ErrEmailTaken
		}
	}
	r.db.stalls[s.ID] = cloneStall(s)
	return nil
}

func (r *StallRepo) GetByID(_ context.Context, id string) (*stall.Stall, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s, ok := r.db.stalls[id]
	if !ok {
		return nil, stall.ErrNotFound
	}
	return cloneStall(s), nil
}

func (r *StallRepo) GetByEmail(_ context.Context, email string) (*stall.Stall, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, s := range r.db.stalls {
		if s.Email == email {
			return cloneStall(s), nil
		}
	}
	return nil, stall.ErrNotFound
}

func (r *StallRepo) List(_ context.Context) ([]stall.Stall, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]stall.Stall, 0, len(r.db.stalls))
	for _, s := range r.db.stalls {
		out = append(out, *cloneStall(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *StallRepo) Delete(_ context.Context, id string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.stalls[id]; !ok {
		return false, nil
	}
	delete(r.db.stalls, id)
	return true, nil
}

func (r *StallRepo) AddMenuItem(_ context.Context, stallID string, item stall.MenuItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stalls[stallID]
	if !ok {
		return stall.ErrNotFound
	}
	s.Menu = append(s.Menu, item)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *StallRepo) UpdateMenuItem(_ context.Context, stallID string, item stall.MenuItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stalls[stallID]
	if !ok {
		return stall.ErrNotFound
	}
	i := s.MenuItemByID(item.ID)
	if i < 0 {
		return stall.ErrMenuItemNotFound
	}
	// counters follow the name reviews were written under; a rename starts afresh
	item.Rating = stall.Rating{}
	if s.Menu[i].Name == item.Name {
		item.Rating = s.Menu[i].Rating
	}
	s.Menu[i] = item
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *StallRepo) DeleteMenuItem(_ context.Context, stallID, itemID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stalls[stallID]
	if !ok {
		return stall.ErrNotFound
	}
	i := s.MenuItemByID(itemID)
	if i < 0 {
		return stall.ErrMenuItemNotFound
	}
	s.Menu = append(s.Menu[:i], s.Menu[i+1:]...)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *StallRepo) IncRating(_ context.Context, stallID, menuItem string, sum, count int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stalls[stallID]
	if !ok {
		return stall.ErrNotFound
	}
	s.Rating.Sum += sum
	s.Rating.Count += count
	if menuItem == "" {
		return nil
	}
	for i := range s.Menu {
		if s.Menu[i].Name == menuItem {
			s.Menu[i].Rating.Sum += sum
			s.Menu[i].Rating.Count += count
		}
	}
	return nil
}

func (r *StallRepo) SetRatings(_ context.Context, stallID string, total stall.Rating, items map[string]stall.Rating) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stalls[stallID]
	if !ok {
		return stall.ErrNotFound
	}
	s.Rating = total
	for i := range s.Menu {
		s.Menu[i].Rating = items[s.Menu[i].Name]
	}
	return nil
}
