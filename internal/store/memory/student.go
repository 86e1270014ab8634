package memory

import (
	"context"
	"time"

	"github.com/MikeMC777/campus-eats/internal/student"
)

type StudentRepo struct{ db *DB }

func (r *StudentRepo) Create(_ context.Context, s *student.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, cur := range r.db.students {
		if cur.Email == s.Email {
			return student.ErrEmailTaken
		}
	}
	r.db.students[s.ID] = cloneStudent(s)
	return nil
}

func (r *StudentRepo) GetByID(_ context.Context, id string) (*student.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s, ok := r.db.students[id]
	if !ok {
		return nil, student.ErrNotFound
	}
	return cloneStudent(s), nil
}

func (r *StudentRepo) GetByEmail(_ context.Context, email string) (*student.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, s := range r.db.students {
		if s.Email == email {
			return cloneStudent(s), nil
		}
	}
	return nil, student.ErrNotFound
}

func (r *StudentRepo) NamesByID(_ context.Context, ids []string) (map[string]string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if s, ok := r.db.students[id]; ok {
			out[id] = s.Name
		}
	}
	return out, nil
}

func (r *StudentRepo) SetTheme(_ context.Context, id string, theme student.Theme) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.students[id]
	if !ok {
		return student.ErrNotFound
	}
	s.Theme = theme
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *StudentRepo) AddFavorite(_ context.Context, id string, f student.Favorite) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.students[id]
	if !ok {
		return student.ErrNotFound
	}
	for _, cur := range s.Favorites {
		if cur.Blocks(f.StallID, f.MenuItemID) {
			return student.ErrDuplicateFavorite
		}
	}
	s.Favorites = append(s.Favorites, f)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *StudentRepo) RemoveFavorites(_ context.Context, id, stallID, menuItemID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.students[id]
	if !ok {
		return student.ErrNotFound
	}
	kept := s.Favorites[:0]
	for _, f := range s.Favorites {
		if !f.RemovedBy(stallID, menuItemID) {
			kept = append(kept, f)
		}
	}
	s.Favorites = kept
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *StudentRepo) PurgeStallFavorites(_ context.Context, stallID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, s := range r.db.students {
		kept := s.Favorites[:0]
		for _, f := range s.Favorites {
			if f.StallID != stallID {
				kept = append(kept, f)
			}
		}
		if len(kept) != len(s.Favorites) {
			n++
		}
		s.Favorites = kept
	}
	return n, nil
}
