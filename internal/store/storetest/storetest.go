// Package storetest runs the same repository contract against every store implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/campus-eats/internal/order"
	"github.com/MikeMC777/campus-eats/internal/review"
	"github.com/MikeMC777/campus-eats/internal/stall"
	"github.com/MikeMC777/campus-eats/internal/student"
)

type Repos struct {
	Students student.Repository
	Stalls   stall.Repository
	Orders   order.Repository
	Reviews  review.Repository
}

// Run exercises r. Every record uses fresh ids and emails, so a shared database is fine.
func Run(t *testing.T, r Repos) {
	t.Run("students", func(t *testing.T) { students(t, r) })
	t.Run("favorites", func(t *testing.T) { favorites(t, r) })
	t.Run("stalls", func(t *testing.T) { stalls(t, r) })
	t.Run("ratings", func(t *testing.T) { ratings(t, r) })
	t.Run("orders", func(t *testing.T) { orders(t, r) })
	t.Run("reviews", func(t *testing.T) { reviews(t, r) })
}

// now is truncated to what every backend round-trips.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func newStudent(t *testing.T, r Repos, name string) *student.Student {
	t.Helper()
	ts := now()
	s := &student.Student{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        uuid.NewString() + "@campus.edu",
		PasswordHash: "hash",
		Theme:        student.ThemeSystem,
		Favorites:    []student.Favorite{},
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	require.NoError(t, r.Students.Create(context.Background(), s))
	return s
}

func newStall(t *testing.T, r Repos, name string) *stall.Stall {
	t.Helper()
	ts := now()
	s := &stall.Stall{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        uuid.NewString() + "@stalls.edu",
		PasswordHash: "hash",
		CuisineType:  "Indian",
		Kind:         stall.KindSimple,
		Menu:         []stall.MenuItem{},
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	require.NoError(t, r.Stalls.Create(context.Background(), s))
	return s
}

func menuItem(name string, price float64) stall.MenuItem {
	return stall.MenuItem{
		ID:                   uuid.NewString(),
		Name:                 name,
		Price:                decimal.NewFromFloat(price),
		Category:             stall.DefaultCategory,
		IsAvailable:          true,
		NutritionInfo:        stall.NutritionInfo{Calories: 250},
		CustomizationOptions: []stall.CustomizationOption{{Name: "Spice", Options: []string{"mild", "hot"}}},
	}
}

func students(t *testing.T, r Repos) {
	ctx := context.Background()
	s := newStudent(t, r, "Asha")

	dup := *s
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, r.Students.Create(ctx, &dup), student.ErrEmailTaken)

	got, err := r.Students.GetByEmail(ctx, s.Email)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.True(t, s.CreatedAt.Equal(got.CreatedAt))

	_, err = r.Students.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, student.ErrNotFound)

	require.NoError(t, r.Students.SetTheme(ctx, s.ID, student.ThemeDark))
	got, err = r.Students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ThemeDark, got.Theme)
	assert.ErrorIs(t, r.Students.SetTheme(ctx, uuid.NewString(), student.ThemeDark), student.ErrNotFound)

	other := newStudent(t, r, "Bala")
	names, err := r.Students.NamesByID(ctx, []string{s.ID, other.ID, uuid.NewString()})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{s.ID: "Asha", other.ID: "Bala"}, names)
}

func favorites(t *testing.T, r Repos) {
	ctx := context.Background()
	s := newStudent(t, r, "Chitra")
	stallA, stallB := uuid.NewString(), uuid.NewString()
	add := func(stallID, item string) error {
		return r.Students.AddFavorite(ctx, s.ID, student.Favorite{StallID: stallID, MenuItemID: item, AddedAt: now()})
	}

	require.NoError(t, add(stallA, "Dosa"))
	require.NoError(t, add(stallA, "Vada"))
	assert.ErrorIs(t, add(stallA, "Dosa"), student.ErrDuplicateFavorite)
	require.NoError(t, add(stallA, student.AllItems))
	assert.ErrorIs(t, add(stallA, "Idli"), student.ErrDuplicateFavorite)
	require.NoError(t, add(stallB, student.AllItems))
	assert.ErrorIs(t, r.Students.AddFavorite(ctx, uuid.NewString(), student.Favorite{StallID: stallA, MenuItemID: "x"}),
		student.ErrNotFound)

	got, err := r.Students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Favorites, 4)
	assert.Equal(t, "Dosa", got.Favorites[0].MenuItemID)

	require.NoError(t, r.Students.RemoveFavorites(ctx, s.ID, stallA, "Vada"))
	got, err = r.Students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Favorites, 3)

	require.NoError(t, r.Students.RemoveFavorites(ctx, s.ID, stallA, student.AllItems))
	got, err = r.Students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Favorites, 1)
	assert.Equal(t, stallB, got.Favorites[0].StallID)

	other := newStudent(t, r, "Deepa")
	require.NoError(t, r.Students.AddFavorite(ctx, other.ID, student.Favorite{StallID: stallB, MenuItemID: "Tea", AddedAt: now()}))
	n, err := r.Students.PurgeStallFavorites(ctx, stallB)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	got, err = r.Students.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Favorites)
}

func stalls(t *testing.T, r Repos) {
	ctx := context.Background()
	s := newStall(t, r, "zz Tandoor")
	first := newStall(t, r, "aa Biryani")

	dup := *s
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, r.Stalls.Create(ctx, &dup), stall.ErrEmailTaken)

	item := menuItem("Naan", 20.5)
	require.NoError(t, r.Stalls.AddMenuItem(ctx, s.ID, item))
	require.NoError(t, r.Stalls.AddMenuItem(ctx, s.ID, menuItem("Kulcha", 30)))
	assert.ErrorIs(t, r.Stalls.AddMenuItem(ctx, uuid.NewString(), menuItem("x", 1)), stall.ErrNotFound)
	require.NoError(t, r.Stalls.IncRating(ctx, s.ID, "Naan", 5, 1))

	item.Price = decimal.NewFromInt(22)
	item.IsAvailable = false
	require.NoError(t, r.Stalls.UpdateMenuItem(ctx, s.ID, item))
	got, err := r.Stalls.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Menu, 2)
	assert.Equal(t, "Naan", got.Menu[0].Name)
	assert.Equal(t, "22.00", got.Menu[0].Price.StringFixed(2))
	assert.False(t, got.Menu[0].IsAvailable)
	assert.Equal(t, stall.Rating{Sum: 5, Count: 1}, got.Menu[0].Rating, "update keeps the rating counters")
	assert.Equal(t, 250.0, got.Menu[0].NutritionInfo.Calories)
	assert.Equal(t, []string{"mild", "hot"}, got.Menu[0].CustomizationOptions[0].Options)

	missing := menuItem("Ghost", 1)
	assert.ErrorIs(t, r.Stalls.UpdateMenuItem(ctx, s.ID, missing), stall.ErrMenuItemNotFound)
	assert.ErrorIs(t, r.Stalls.DeleteMenuItem(ctx, s.ID, missing.ID), stall.ErrMenuItemNotFound)
	assert.ErrorIs(t, r.Stalls.DeleteMenuItem(ctx, uuid.NewString(), missing.ID), stall.ErrNotFound)
	require.NoError(t, r.Stalls.DeleteMenuItem(ctx, s.ID, item.ID))

	byEmail, err := r.Stalls.GetByEmail(ctx, s.Email)
	require.NoError(t, err)
	require.Len(t, byEmail.Menu, 1)
	assert.Equal(t, "Kulcha", byEmail.Menu[0].Name)

	list, err := r.Stalls.List(ctx)
	require.NoError(t, err)
	posA, posS := -1, -1
	for i, st := range list {
		switch st.ID {
		case first.ID:
			posA = i
		case s.ID:
			posS = i
		}
	}
	require.True(t, posA >= 0 && posS >= 0)
	assert.Less(t, posA, posS, "stalls are listed by name")

	ok, err := r.Stalls.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.Stalls.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = r.Stalls.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, stall.ErrNotFound)
}

func ratings(t *testing.T, r Repos) {
	ctx := context.Background()
	s := newStall(t, r, "Momo")
	require.NoError(t, r.Stalls.AddMenuItem(ctx, s.ID, menuItem("Veg Momo", 50)))
	require.NoError(t, r.Stalls.AddMenuItem(ctx, s.ID, menuItem("Thukpa", 70)))

	require.NoError(t, r.Stalls.IncRating(ctx, s.ID, "Veg Momo", 4, 1))
	require.NoError(t, r.Stalls.IncRating(ctx, s.ID, "", 2, 1))
	require.NoError(t, r.Stalls.IncRating(ctx, s.ID, "Veg Momo", -1, 0))
	assert.ErrorIs(t, r.Stalls.IncRating(ctx, uuid.NewString(), "", 1, 1), stall.ErrNotFound)

	got, err := r.Stalls.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, stall.Rating{Sum: 5, Count: 2}, got.Rating)
	assert.Equal(t, stall.Rating{Sum: 3, Count: 1}, got.Menu[0].Rating)

	require.NoError(t, r.Stalls.SetRatings(ctx, s.ID, stall.Rating{Sum: 9, Count: 2},
		map[string]stall.Rating{"Thukpa": {Sum: 5, Count: 1}}))
	got, err = r.Stalls.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, stall.Rating{Sum: 9, Count: 2}, got.Rating)
	assert.Equal(t, stall.Rating{}, got.Menu[0].Rating, "items left out are zeroed")
	assert.Equal(t, stall.Rating{Sum: 5, Count: 1}, got.Menu[1].Rating)
	assert.ErrorIs(t, r.Stalls.SetRatings(ctx, uuid.NewString(), stall.Rating{}, nil), stall.ErrNotFound)

	thukpa := got.Menu[1]
	thukpa.Name = "Thukpa Soup"
	require.NoError(t, r.Stalls.UpdateMenuItem(ctx, s.ID, thukpa))
	got, err = r.Stalls.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thukpa Soup", got.Menu[1].Name)
	assert.Equal(t, stall.Rating{}, got.Menu[1].Rating, "a rename starts the item counters afresh")
	assert.Equal(t, stall.Rating{Sum: 9, Count: 2}, got.Rating)
}

func newOrder(studentID, stallID string, at time.Time) *order.Order {
	items := []order.Item{
		{Item: "Chai", Price: decimal.NewFromInt(10)},
		{Item: "Samosa", Price: decimal.RequireFromString("15.5")},
	}
	return &order.Order{
		ID:            uuid.NewString(),
		StudentID:     studentID,
		StallID:       stallID,
		StallName:     "Chai Point",
		Name:          "Asha",
		Items:         items,
		Total:         order.Total(items),
		Status:        order.StatusPending,
		PickupTime:    order.DefaultPickupTime,
		PaymentStatus: order.PaymentPending,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

func orders(t *testing.T, r Repos) {
	ctx := context.Background()
	studentID, stallID := uuid.NewString(), uuid.NewString()
	base := now()
	older := newOrder(studentID, stallID, base.Add(-time.Minute))
	newer := newOrder(studentID, stallID, base)
	guest := newOrder("", stallID, base.Add(-2*time.Minute))
	for _, o := range []*order.Order{older, newer, guest} {
		require.NoError(t, r.Orders.Create(ctx, o))
	}
	assert.ErrorIs(t, r.Orders.Create(ctx, older), order.ErrExists)

	got, err := r.Orders.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.50", got.Total.StringFixed(2))
	assert.Equal(t, "Samosa", got.Items[1].Item)
	_, err = r.Orders.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, order.ErrNotFound)

	hist, err := r.Orders.ListByStudent(ctx, studentID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, newer.ID, hist[0].ID)
	recv, err := r.Orders.ListByStall(ctx, stallID)
	require.NoError(t, err)
	require.Len(t, recv, 3)
	assert.Equal(t, guest.ID, recv[2].ID)
	assert.Empty(t, recv[2].StudentID)

	require.NoError(t, r.Orders.UpdateStatus(ctx, newer.ID, order.StatusPending, order.StatusCompleted, "Ready"))
	assert.ErrorIs(t, r.Orders.UpdateStatus(ctx, newer.ID, order.StatusPending, order.StatusCancelled, ""),
		order.ErrStatusConflict)
	assert.ErrorIs(t, r.Orders.UpdateStatus(ctx, uuid.NewString(), order.StatusPending, order.StatusCancelled, ""),
		order.ErrNotFound)
	got, err = r.Orders.GetByID(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status)
	assert.Equal(t, "Ready", got.StatusMessage)

	ok, err := r.Orders.Delete(ctx, newer.ID, order.Owner{StudentID: uuid.NewString()})
	require.NoError(t, err)
	assert.False(t, ok, "another student cannot remove the order")
	ok, err = r.Orders.Delete(ctx, newer.ID, order.Owner{StallID: stallID})
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = r.Orders.GetByID(ctx, newer.ID)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func reviews(t *testing.T, r Repos) {
	ctx := context.Background()
	stallID := uuid.NewString()
	base := now()
	mk := func(item string, rating int, at time.Time) *review.Review {
		rv := &review.Review{
			ID:         uuid.NewString(),
			StudentID:  uuid.NewString(),
			StallID:    stallID,
			MenuItemID: item,
			Rating:     rating,
			Review:     "good",
			Images:     []string{},
			CreatedAt:  at,
			UpdatedAt:  at,
		}
		require.NoError(t, r.Reviews.Create(ctx, rv))
		return rv
	}
	a := mk("Dosa", 4, base.Add(-time.Minute))
	b := mk("", 2, base)

	all, err := r.Reviews.ListByStall(ctx, stallID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)
	dosa, err := r.Reviews.ListByStall(ctx, stallID, "Dosa")
	require.NoError(t, err)
	require.Len(t, dosa, 1)
	assert.Equal(t, a.ID, dosa[0].ID)

	a.Rating, a.Review, a.Images, a.UpdatedAt = 5, "great", []string{"https://img/1.png"}, now()
	require.NoError(t, r.Reviews.Update(ctx, a))
	got, err := r.Reviews.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, []string{"https://img/1.png"}, got.Images)

	missing := *a
	missing.ID = uuid.NewString()
	assert.ErrorIs(t, r.Reviews.Update(ctx, &missing), review.ErrNotFound)

	ok, err := r.Reviews.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = r.Reviews.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, review.ErrNotFound)
}
