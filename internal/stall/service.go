package stall

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MikeMC777/campus-eats/internal/apperr"
	"github.com/MikeMC777/campus-eats/internal/credential"
)

// FavoritesPurger removes a deleted stall from every student's favorites.
type FavoritesPurger interface {
	PurgeStallFavorites(ctx context.Context, stallID string) (int64, error)
}

// Notifier is told about menu changes once they are stored.
type Notifier interface {
	MenuUpdated(stallID string, menu []MenuItem)
}

type Service struct {
	repo      Repository
	creds     credential.Checker
	favorites FavoritesPurger
	notify    Notifier
	now       func() time.Time
}

func NewService(repo Repository, creds credential.Checker, favorites FavoritesPurger, notify Notifier) *Service {
	return &Service{repo: repo, creds: creds, favorites: favorites, notify: notify, now: time.Now}
}

func cleanEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *Service) Register(ctx context.Context, in RegisterRequest) (*Stall, error) {
	name := strings.TrimSpace(in.Name)
	email := cleanEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "name, email and password are required")
	}
	cuisine := strings.TrimSpace(in.CuisineType)
	if cuisine == "" {
		cuisine = "Other"
	}
	if !ValidCuisine(cuisine) {
		return nil, status.Errorf(codes.InvalidArgument, "invalid cuisine type %q", cuisine)
	}
	kind := Kind(strings.TrimSpace(in.Kind))
	if kind == "" {
		kind = KindSimple
	}
	if !kind.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "invalid stall kind %q", kind)
	}
	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "hash error: %v", err)
	}
	now := s.now().UTC()
	st := &Stall{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Description:  strings.TrimSpace(in.Description),
		CuisineType:  cuisine,
		Kind:         kind,
		Menu:         []MenuItem{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, status.Error(codes.InvalidArgument, "email already registered")
		}
		return nil, apperr.FromStore("register stall", err)
	}
	st.FillRatings()
	return st, nil
}

func (s *Service) Login(ctx context.Context, in LoginRequest) (*Stall, error) {
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
	st.FillRatings()
	return st, nil
}

func (s *Service) List(ctx context.Context) ([]Stall, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.FromStore("list stalls", err)
	}
	if out == nil {
		out = []Stall{}
	}
	for i := range out {
		out[i].FillRatings()
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Stall, error) {
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, status.Error(codes.NotFound, "stall not found")
		}
		return nil, apperr.FromStore("get stall", err)
	}
	st.FillRatings()
	return st, nil
}

// Delete removes the stall and then its favorites entries. Orders keep referencing the id.
func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.FromStore("delete stall", err)
	}
	if !ok {
		return status.Error(codes.NotFound, "stall not found")
	}
	if s.favorites != nil {
		n, err := s.favorites.PurgeStallFavorites(ctx, id)
		if err != nil {
			log.WithError(err).WithField("stall", id).Error("[stall] purging favorites failed")
			return apperr.FromStore("purge favorites", err)
		}
		log.WithFields(log.Fields{"stall": id, "students": n}).Info("[stall] removed from favorites")
	}
	return nil
}

func (s *Service) AddMenuItem(ctx context.Context, in MenuItemRequest) (*Stall, error) {
	if in.StallID == "" {
		return nil, status.Error(codes.InvalidArgument, "stall ID is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price <= 0 {
		return nil, status.Error(codes.InvalidArgument, "name and a positive price are required")
	}
	item := MenuItem{
		ID:                   uuid.NewString(),
		Name:                 name,
		Price:                decimal.NewFromFloat(in.Price),
		Description:          in.Description,
		Category:             in.Category,
		Image:                in.Image,
		IsAvailable:          true,
		NutritionInfo:        in.NutritionInfo.apply(NutritionInfo{}),
		CustomizationOptions: in.CustomizationOptions,
	}
	if item.Category == "" {
		item.Category = DefaultCategory
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if item.CustomizationOptions == nil {
		item.CustomizationOptions = []CustomizationOption{}
	}
	if err := s.repo.AddMenuItem(ctx, in.StallID, item); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, status.Error(codes.NotFound, "stall not found")
		}
		return nil, apperr.FromStore("add menu item", err)
	}
	return s.menuChanged(ctx, in.StallID)
}

func (s *Service) UpdateMenuItem(ctx context.Context, stallID, itemID string, in UpdateMenuItemRequest) (*Stall, error) {
	st, err := s.Get(ctx, stallID)
	if err != nil {
		return nil, err
	}
	idx := st.MenuItemByID(itemID)
	if idx < 0 {
		return nil, status.Error(codes.NotFound, "menu item not found")
	}
	item := st.Menu[idx]
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, status.Error(codes.InvalidArgument, "name cannot be empty")
		}
		item.Name = name
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, status.Error(codes.InvalidArgument, "price must be positive")
		}
		item.Price = decimal.NewFromFloat(*in.Price)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Image != nil {
		item.Image = *in.Image
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if in.CustomizationOptions != nil {
		item.CustomizationOptions = in.CustomizationOptions
	}
	item.NutritionInfo = in.NutritionInfo.apply(item.NutritionInfo)

	if err := s.repo.UpdateMenuItem(ctx, stallID, item); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, status.Error(codes.NotFound, "stall not found")
		case errors.Is(err, ErrMenuItemNotFound):
			return nil, status.Error(codes.NotFound, "menu item not found")
		}
		return nil, apperr.FromStore("update menu item", err)
	}
	return s.menuChanged(ctx, stallID)
}

func (s *Service) DeleteMenuItem(ctx context.Context, stallID, itemID string) (*Stall, error) {
	if err := s.repo.DeleteMenuItem(ctx, stallID, itemID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, status.Error(codes.NotFound, "stall not found")
		case errors.Is(err, ErrMenuItemNotFound):
			return nil, status.Error(codes.NotFound, "menu item not found")
		}
		return nil, apperr.FromStore("delete menu item", err)
	}
	return s.menuChanged(ctx, stallID)
}

// menuChanged re-reads the stall after a committed menu write and notifies listeners.
func (s *Service) menuChanged(ctx context.Context, stallID string) (*Stall, error) {
	st, err := s.Get(ctx, stallID)
	if err != nil {
		return nil, err
	}
	if s.notify != nil {
		s.notify.MenuUpdated(st.ID, st.Menu)
	}
	return st, nil
}
