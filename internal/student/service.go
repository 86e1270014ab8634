package student

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MikeMC777/campus-eats/internal/apperr"
	"github.com/MikeMC777/campus-eats/internal/credential"
	"github.com/MikeMC777/campus-eats/internal/stall"
)

// StallReader resolves the stall a favorite points at.
type StallReader interface {
	GetByID(ctx context.Context, id string) (*stall.Stall, error)
}

type Service struct {
	repo   Repository
	stalls StallReader
	creds  credential.Checker
	now    func() time.Time
}

func NewService(repo Repository, stalls StallReader, creds credential.Checker) *Service {
	return &Service{repo: repo, stalls: stalls, creds: creds, now: time.Now}
}

func cleanEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *Service) Register(ctx context.Context, in RegisterRequest) (*Student, error) {
	name := strings.TrimSpace(in.Name)
	email := cleanEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "name, email and password are required")
	}
	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "hash error: %v", err)
	}
	now := s.now().UTC()
	st := &Student{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Theme:        ThemeSystem,
		Favorites:    []Favorite{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, status.Error(codes.InvalidArgument, "email already registered")
		}
		return nil, apperr.FromStore("register student", err)
	}
	return st, nil
}

// Login answers Unauthenticated for both an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*Student, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "email and password are required")
	}
	st, err := s.repo.GetByEmail(ctx, cleanEmail(in.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, status.Error(codes.Unauthenticated, "invalid credentials")
		}
		return nil, apperr.FromStore("login", err)
	}
	if err := s.creds.Check(st.PasswordHash, in.Password); err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}
	return st, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Student, error) {
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, status.Error(codes.NotFound, "student not found")
		}
		return nil, apperr.FromStore("get student", err)
	}
	if st.Favorites == nil {
		st.Favorites = []Favorite{}
	}
	return st, nil
}

func (s *Service) Theme(ctx context.Context, id string) (Theme, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if st.Theme == "" {
		return ThemeSystem, nil
	}
	return st.Theme, nil
}

func (s *Service) SetTheme(ctx context.Context, id, theme string) (*Student, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(theme)))
	if !t.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "invalid theme %q", theme)
	}
	if err := s.repo.SetTheme(ctx, id, t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, status.Error(codes.NotFound, "student not found")
		}
		return nil, apperr.FromStore("set theme", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) AddFavorite(ctx context.Context, id string, in FavoriteRequest) (*Student, error) {
	if in.StallID == "" || in.MenuItemID == "" {
		return nil, status.Error(codes.InvalidArgument, "stallId and menuItemId are required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.stalls.GetByID(ctx, in.StallID); err != nil {
		if errors.Is(err, stall.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "stall not found")
		}
		return nil, apperr.FromStore("get stall", err)
	}
	fav := Favorite{StallID: in.StallID, MenuItemID: in.MenuItemID, AddedAt: s.now().UTC()}
	if err := s.repo.AddFavorite(ctx, id, fav); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateFavorite):
			if in.MenuItemID == AllItems {
				return nil, status.Error(codes.InvalidArgument, "stall is already in favorites")
			}
			return nil, status.Error(codes.InvalidArgument, "item is already in favorites")
		case errors.Is(err, ErrNotFound):
			return nil, status.Error(codes.NotFound, "student not found")
		}
		return nil, apperr.FromStore("add favorite", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) RemoveFavorite(ctx context.Context, id string, in FavoriteRequest) (*Student, error) {
	if in.StallID == "" || in.MenuItemID == "" {
		return nil, status.Error(codes.InvalidArgument, "stallId and menuItemId are required")
	}
	if err := s.repo.RemoveFavorites(ctx, id, in.StallID, in.MenuItemID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, status.Error(codes.NotFound, "student not found")
		}
		return nil, apperr.FromStore("remove favorite", err)
	}
	return s.Get(ctx, id)
}

// Favorites lists the student's favorites with their stall populated. A favorite whose stall no
// longer exists keeps its stallId and has no stall.
func (s *Service) Favorites(ctx context.Context, id string) ([]FavoriteView, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	refs := make(map[string]*StallRef)
	out := make([]FavoriteView, 0, len(st.Favorites))
	for _, f := range st.Favorites {
		ref, seen := refs[f.StallID]
		if !seen {
			sl, err := s.stalls.GetByID(ctx, f.StallID)
			switch {
			case err == nil:
				sl.FillRatings()
				ref = &StallRef{ID: sl.ID, Name: sl.Name, Menu: sl.Menu}
			case errors.Is(err, stall.ErrNotFound):
			default:
				return nil, apperr.FromStore("get stall", err)
			}
			refs[f.StallID] = ref
		}
		out = append(out, FavoriteView{StallID: f.StallID, MenuItemID: f.MenuItemID, AddedAt: f.AddedAt, Stall: ref})
	}
	return out, nil
}
