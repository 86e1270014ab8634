package review_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MikeMC777/campus-eats/internal/credential"
	"github.com/MikeMC777/campus-eats/internal/review"
	"github.com/MikeMC777/campus-eats/internal/stall"
	"github.com/MikeMC777/campus-eats/internal/store/memory"
	"github.com/MikeMC777/campus-eats/internal/student"
)

type fixture struct {
	svc     *review.Service
	stalls  *stall.Service
	student *student.Student
	stall   *stall.Stall
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db := memory.New()
	creds := credential.NewBcrypt(bcrypt.MinCost)
	stu, err := student.NewService(db.Students(), db.Stalls(), creds).
		Register(ctx, student.RegisterRequest{Name: "Asha", Email: "asha@campus.edu", Password: "x"})
	require.NoError(t, err)
	stalls := stall.NewService(db.Stalls(), creds, db.Students(), nil)
	sl, err := stalls.Register(ctx, stall.RegisterRequest{Name: "Dosa Corner", Email: "dosa@campus.edu", Password: "x"})
	require.NoError(t, err)
	_, err = stalls.AddMenuItem(ctx, stall.MenuItemRequest{StallID: sl.ID, Name: "Dosa", Price: 60})
	require.NoError(t, err)
	return fixture{
		svc:     review.NewService(db.Reviews(), db.Students(), db.Stalls()),
		stalls:  stalls,
		student: stu,
		stall:   sl,
	}
}

func (f fixture) create(t *testing.T, rating int, item string) *review.Review {
	t.Helper()
	r, err := f.svc.Create(context.Background(), review.CreateRequest{
		StudentID: f.student.ID, StallID: f.stall.ID, MenuItemID: item, Rating: rating, Review: "ok",
	})
	require.NoError(t, err)
	return r
}

func TestTwoReviewsAverageToThree(t *testing.T) {
	f := newFixture(t)
	f.create(t, 4, "")
	f.create(t, 2, "")

	got, err := f.stalls.Get(context.Background(), f.stall.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.AverageRating)
	assert.Equal(t, 2, got.TotalReviews)
}

func TestMenuItemRatingTracksNamedReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, 5, "Dosa")
	r := f.create(t, 3, "Dosa")
	f.create(t, 1, "")

	got, err := f.stalls.Get(ctx, f.stall.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.AverageRating)
	assert.Equal(t, 4.0, got.Menu[0].AverageRating)
	assert.Equal(t, 2, got.Menu[0].TotalReviews)

	five := 5
	_, err = f.svc.Update(ctx, r.ID, review.UpdateRequest{Rating: &five})
	require.NoError(t, err)
	got, err = f.stalls.Get(ctx, f.stall.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Menu[0].AverageRating)
	assert.Equal(t, 3.7, got.AverageRating)

	require.NoError(t, f.svc.Delete(ctx, r.ID))
	got, err = f.stalls.Get(ctx, f.stall.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Menu[0].TotalReviews)
	assert.Equal(t, 2, got.TotalReviews)
	assert.Equal(t, 3.0, got.AverageRating)
}

func TestRecomputeIsStable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, 4, "Dosa")
	f.create(t, 3, "")
	f.create(t, 3, "Dosa")

	a, err := f.svc.Recompute(ctx, f.stall.ID)
	require.NoError(t, err)
	b, err := f.svc.Recompute(ctx, f.stall.ID)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 3.3, a.AverageRating)
	assert.Equal(t, 3, a.TotalReviews)
	assert.Equal(t, review.ItemSummary{AverageRating: 3.5, TotalReviews: 2}, a.MenuItems["Dosa"])

	got, err := f.stalls.Get(ctx, f.stall.ID)
	require.NoError(t, err)
	assert.Equal(t, a.AverageRating, got.AverageRating)
}

func TestConcurrentReviewsLoseNoUpdates(t *testing.T) {
	f := newFixture(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = f.svc.Create(context.Background(), review.CreateRequest{
				StudentID: f.student.ID, StallID: f.stall.ID, Rating: 1 + i%5, Review: "x",
			})
		}(i)
	}
	wg.Wait()

	got, err := f.stalls.Get(context.Background(), f.stall.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.TotalReviews)
	assert.Equal(t, 3.0, got.AverageRating)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, review.CreateRequest{StudentID: f.student.ID, StallID: f.stall.ID, Rating: 6, Review: "x"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = f.svc.Create(ctx, review.CreateRequest{StudentID: f.student.ID, StallID: f.stall.ID, Rating: 3, Review: "  "})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = f.svc.Create(ctx, review.CreateRequest{StudentID: "missing", StallID: f.stall.ID, Rating: 3, Review: "x"})
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = f.svc.Create(ctx, review.CreateRequest{StudentID: f.student.ID, StallID: "missing", Rating: 3, Review: "x"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestListFillsStudentName(t *testing.T) {
	f := newFixture(t)
	f.create(t, 4, "Dosa")
	f.create(t, 2, "")

	all, err := f.svc.List(context.Background(), f.stall.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, r := range all {
		assert.Equal(t, "Asha", r.StudentName)
	}

	dosa, err := f.svc.List(context.Background(), f.stall.ID, "Dosa")
	require.NoError(t, err)
	assert.Len(t, dosa, 1)
}

func TestRenamedItemCountersAgreeWithRecompute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := f.create(t, 4, "Dosa")

	st, err := f.stalls.Get(ctx, f.stall.ID)
	require.NoError(t, err)
	name := "Masala Dosa"
	_, err = f.stalls.UpdateMenuItem(ctx, f.stall.ID, st.Menu[0].ID, stall.UpdateMenuItemRequest{Name: &name})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, old.ID))
	f.create(t, 2, "Masala Dosa")

	live, err := f.stalls.Get(ctx, f.stall.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, live.Menu[0].TotalReviews)
	assert.Equal(t, 2.0, live.Menu[0].AverageRating)

	_, err = f.svc.Recompute(ctx, f.stall.ID)
	require.NoError(t, err)
	after, err := f.stalls.Get(ctx, f.stall.ID)
	require.NoError(t, err)
	assert.Equal(t, live.Menu[0].TotalReviews, after.Menu[0].TotalReviews)
	assert.Equal(t, live.Menu[0].AverageRating, after.Menu[0].AverageRating)
	assert.Equal(t, live.AverageRating, after.AverageRating)
}
