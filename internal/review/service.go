package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MikeMC777/campus-eats/internal/apperr"
	"github.com/MikeMC777/campus-eats/internal/stall"
	"github.com/MikeMC777/campus-eats/internal/student"
)

type StudentLookup interface {
	GetByID(ctx context.Context, id string) (*student.Student, error)
	NamesByID(ctx context.Context, ids []string) (map[string]string, error)
}

type StallRatings interface {
	GetByID(ctx context.Context, id string) (*stall.Stall, error)
	IncRating(ctx context.Context, stallID, menuItem string, sum, count int) error
	SetRatings(ctx context.Context, stallID string, total stall.Rating, items map[string]stall.Rating) error
}

type Service struct {
	repo     Repository
	students StudentLookup
	stalls   StallRatings
	now      func() time.Time
}

func NewService(repo Repository, students StudentLookup, stalls StallRatings) *Service {
	return &Service{repo: repo, students: students, stalls: stalls, now: time.Now}
}

func checkRating(r int) error {
	if r < MinRating || r > MaxRating {
		return status.Errorf(codes.InvalidArgument, "rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

func (s *Service) ensureStall(ctx context.Context, id string) error {
	if _, err := s.stalls.GetByID(ctx, id); err != nil {
		if errors.Is(err, stall.ErrNotFound) {
			return status.Error(codes.NotFound, "stall not found")
		}
		return apperr.FromStore("get stall", err)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateRequest) (*Review, error) {
	if in.StudentID == "" || in.StallID == "" {
		return nil, status.Error(codes.InvalidArgument, "studentId and stallId are required")
	}
	if err := checkRating(in.Rating); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(in.Review)
	if text == "" {
		return nil, status.Error(codes.InvalidArgument, "review text is required")
	}
	stu, err := s.students.GetByID(ctx, in.StudentID)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "student not found")
		}
		return nil, apperr.FromStore("get student", err)
	}
	if err := s.ensureStall(ctx, in.StallID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	r := &Review{
		ID:         uuid.NewString(),
		StudentID:  stu.ID,
		StallID:    in.StallID,
		MenuItemID: strings.TrimSpace(in.MenuItemID),
		Rating:     in.Rating,
		Review:     text,
		Images:     in.Images,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if r.Images == nil {
		r.Images = []string{}
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, apperr.FromStore("create review", err)
	}
	s.adjust(ctx, r.StallID, r.MenuItemID, r.Rating, 1)
	r.StudentName = stu.Name
	return r, nil
}

func (s *Service) get(ctx context.Context, id string) (*Review, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, status.Error(codes.NotFound, "review not found")
		}
		return nil, apperr.FromStore("get review", err)
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateRequest) (*Review, error) {
	r, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	old := r.Rating
	if in.Rating != nil {
		if err := checkRating(*in.Rating); err != nil {
			return nil, err
		}
		r.Rating = *in.Rating
	}
	if in.Review != nil {
		text := strings.TrimSpace(*in.Review)
		if text == "" {
			return nil, status.Error(codes.InvalidArgument, "review text cannot be empty")
		}
		r.Review = text
	}
	if in.Images != nil {
		r.Images = *in.Images
	}
	r.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, r); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, status.Error(codes.NotFound, "review not found")
		}
		return nil, apperr.FromStore("update review", err)
	}
	if d := r.Rating - old; d != 0 {
		s.adjust(ctx, r.StallID, r.MenuItemID, d, 0)
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	r, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.FromStore("delete review", err)
	}
	if !ok {
		return status.Error(codes.NotFound, "review not found")
	}
	s.adjust(ctx, r.StallID, r.MenuItemID, -r.Rating, -1)
	return nil
}

// adjust applies an atomic counter delta. If the increment fails the counters are rebuilt from
// the review set instead.
func (s *Service) adjust(ctx context.Context, stallID, menuItem string, sum, count int) {
	err := s.stalls.IncRating(ctx, stallID, menuItem, sum, count)
	if err == nil || errors.Is(err, stall.ErrNotFound) {
		return
	}
	log.WithError(err).WithField("stall", stallID).Warn("[review] rating increment failed, recomputing")
	if _, err := s.Recompute(ctx, stallID); err != nil {
		log.WithError(err).WithField("stall", stallID).Error("[review] recompute failed")
	}
}

// List returns a stall's reviews, optionally for one menu item, with the student name filled in.
func (s *Service) List(ctx context.Context, stallID, menuItemID string) ([]Review, error) {
	if stallID == "" {
		return nil, status.Error(codes.InvalidArgument, "stallId is required")
	}
	out, err := s.repo.ListByStall(ctx, stallID, menuItemID)
	if err != nil {
		return nil, apperr.FromStore("list reviews", err)
	}
	if len(out) == 0 {
		return []Review{}, nil
	}
	ids := make([]string, 0, len(out))
	seen := make(map[string]bool, len(out))
	for _, r := range out {
		if !seen[r.StudentID] {
			seen[r.StudentID] = true
			ids = append(ids, r.StudentID)
		}
	}
	names, err := s.students.NamesByID(ctx, ids)
	if err != nil {
		return nil, apperr.FromStore("resolve students", err)
	}
	for i := range out {
		out[i].StudentName = names[out[i].StudentID]
	}
	return out, nil
}

// Recompute rebuilds the stall and menu item counters from the full review set.
func (s *Service) Recompute(ctx context.Context, stallID string) (*Summary, error) {
	if err := s.ensureStall(ctx, stallID); err != nil {
		return nil, err
	}
	all, err := s.repo.ListByStall(ctx, stallID, "")
	if err != nil {
		return nil, apperr.FromStore("list reviews", err)
	}
	total, items := Aggregate(all)
	if err := s.stalls.SetRatings(ctx, stallID, total, items); err != nil {
		if errors.Is(err, stall.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "stall not found")
		}
		return nil, apperr.FromStore("set ratings", err)
	}
	sum := &Summary{
		StallID:       stallID,
		AverageRating: total.Average(),
		TotalReviews:  total.Count,
		MenuItems:     make(map[string]ItemSummary, len(items)),
	}
	for name, r := range items {
		sum.MenuItems[name] = ItemSummary{AverageRating: r.Average(), TotalReviews: r.Count}
	}
	return sum, nil
}
