package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MikeMC777/campus-eats/internal/apperr"
	"github.com/MikeMC777/campus-eats/internal/stall"
	"github.com/MikeMC777/campus-eats/internal/student"
)

type StudentLookup interface {
	GetByID(ctx context.Context, id string) (*student.Student, error)
}

type StallLookup interface {
	GetByID(ctx context.Context, id string) (*stall.Stall, error)
}

// Notifier is told about orders after the write commits.
type Notifier interface {
	OrderPlaced(o *Order)
	StatusChanged(o *Order)
}

type Service struct {
	repo     Repository
	students StudentLookup
	stalls   StallLookup
	notify   Notifier
	now      func() time.Time
}

// NewService wires the order service. notify may be nil.
func NewService(repo Repository, students StudentLookup, stalls StallLookup, notify Notifier) *Service {
	return &Service{repo: repo, students: students, stalls: stalls, notify: notify, now: time.Now}
}

func validateItems(items []Item) ([]Item, error) {
	if len(items) == 0 {
		return nil, status.Error(codes.InvalidArgument, "order must contain at least one item")
	}
	out := make([]Item, 0, len(items))
	for i, it := range items {
		name := strings.TrimSpace(it.Item)
		if name == "" {
			return nil, status.Errorf(codes.InvalidArgument, "item %d: name is required", i)
		}
		if !it.Price.IsPositive() {
			return nil, status.Errorf(codes.InvalidArgument, "item %d: price must be positive", i)
		}
		out = append(out, Item{Item: name, Price: it.Price})
	}
	return out, nil
}

func paymentStatus(s string) (PaymentStatus, error) {
	if s == "" {
		return PaymentPending, nil
	}
	p := PaymentStatus(s)
	if !p.Valid() {
		return "", status.Errorf(codes.InvalidArgument, "invalid payment status %q", s)
	}
	return p, nil
}

func (s *Service) student(ctx context.Context, id string) (*student.Student, error) {
	st, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "student not found")
		}
		return nil, apperr.FromStore("get student", err)
	}
	return st, nil
}

func (s *Service) stall(ctx context.Context, id string) (*stall.Stall, error) {
	st, err := s.stalls.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, stall.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "stall not found")
		}
		return nil, apperr.FromStore("get stall", err)
	}
	return st, nil
}

// PlaceForStudent creates a pending order for a known student. The stall is optional.
func (s *Service) PlaceForStudent(ctx context.Context, in PlaceRequest) (*Order, error) {
	if in.StudentID == "" {
		return nil, status.Error(codes.InvalidArgument, "studentId is required")
	}
	items, err := validateItems(in.Items)
	if err != nil {
		return nil, err
	}
	pay, err := paymentStatus(in.PaymentStatus)
	if err != nil {
		return nil, err
	}
	stu, err := s.student(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	o := &Order{
		ID:            in.ID,
		StudentID:     stu.ID,
		Name:          strings.TrimSpace(in.Name),
		Items:         items,
		PickupTime:    in.PickupTime,
		PaymentStatus: pay,
		TransactionID: in.TransactionID,
	}
	if o.Name == "" {
		o.Name = stu.Name
	}
	if in.StallID != "" {
		sl, err := s.stall(ctx, in.StallID)
		if err != nil {
			return nil, err
		}
		o.StallID, o.StallName = sl.ID, sl.Name
	}
	return s.create(ctx, o)
}

// PlaceForStall creates a pending order on a known stall. The student is optional.
func (s *Service) PlaceForStall(ctx context.Context, in StallPlaceRequest) (*Order, error) {
	if in.StallID == "" {
		return nil, status.Error(codes.InvalidArgument, "stallId is required")
	}
	items, err := validateItems(in.Items)
	if err != nil {
		return nil, err
	}
	pay, err := paymentStatus(in.PaymentStatus)
	if err != nil {
		return nil, err
	}
	sl, err := s.stall(ctx, in.StallID)
	if err != nil {
		return nil, err
	}
	o := &Order{
		ID:            in.ID,
		StallID:       sl.ID,
		StallName:     sl.Name,
		Name:          strings.TrimSpace(in.Name),
		Items:         items,
		PickupTime:    in.PickupTime,
		PaymentStatus: pay,
		TransactionID: in.TransactionID,
	}
	if in.StudentID != "" {
		stu, err := s.student(ctx, in.StudentID)
		if err != nil {
			return nil, err
		}
		o.StudentID = stu.ID
		if o.Name == "" {
			o.Name = stu.Name
		}
	}
	if o.Name == "" {
		o.Name = "Guest"
	}
	return s.create(ctx, o)
}

func (s *Service) create(ctx context.Context, o *Order) (*Order, error) {
	now := s.now().UTC()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.PickupTime == "" {
		o.PickupTime = DefaultPickupTime
	}
	o.Status = StatusPending
	o.Total = Total(o.Items)
	o.CreatedAt, o.UpdatedAt = now, now

	if err := s.repo.Create(ctx, o); err != nil {
		if errors.Is(err, ErrExists) {
			return nil, status.Errorf(codes.AlreadyExists, "order %s already exists", o.ID)
		}
		return nil, apperr.FromStore("create order", err)
	}
	if s.notify != nil && o.StallID != "" {
		s.notify.OrderPlaced(o)
	}
	return o, nil
}

func (s *Service) History(ctx context.Context, studentID string) ([]Order, error) {
	if _, err := s.student(ctx, studentID); err != nil {
		return nil, err
	}
	out, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, apperr.FromStore("list orders", err)
	}
	if out == nil {
		out = []Order{}
	}
	return out, nil
}

func (s *Service) StallOrders(ctx context.Context, stallID string) ([]Order, error) {
	if _, err := s.stall(ctx, stallID); err != nil {
		return nil, err
	}
	out, err := s.repo.ListByStall(ctx, stallID)
	if err != nil {
		return nil, apperr.FromStore("list orders", err)
	}
	if out == nil {
		out = []Order{}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, status.Error(codes.NotFound, "order not found")
		}
		return nil, apperr.FromStore("get order", err)
	}
	return o, nil
}

// UpdateStatus moves an order out of pending. stallID, when set, must own the order.
func (s *Service) UpdateStatus(ctx context.Context, stallID, id string, in StatusRequest) (*Order, error) {
	to, ok := ParseStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "invalid status %q", in.Status)
	}
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if stallID != "" && cur.StallID != stallID {
		return nil, status.Error(codes.NotFound, "order not found")
	}
	if !Transition(cur.Status, to) {
		return nil, status.Errorf(codes.FailedPrecondition, "cannot move order from %s to %s", cur.Status, to)
	}
	if err := s.repo.UpdateStatus(ctx, id, cur.Status, to, strings.TrimSpace(in.Message)); err != nil {
		switch {
		case errors.Is(err, ErrStatusConflict):
			return nil, status.Error(codes.FailedPrecondition, "order status already changed")
		case errors.Is(err, ErrNotFound):
			return nil, status.Error(codes.NotFound, "order not found")
		}
		return nil, apperr.FromStore("update status", err)
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notify != nil {
		s.notify.StatusChanged(o)
	}
	return o, nil
}

// Remove deletes an order held by owner.
func (s *Service) Remove(ctx context.Context, id string, owner Owner) error {
	if id == "" || (owner.StudentID == "" && owner.StallID == "") {
		return status.Error(codes.InvalidArgument, "order id and owner are required")
	}
	ok, err := s.repo.Delete(ctx, id, owner)
	if err != nil {
		return apperr.FromStore(fmt.Sprintf("delete order %s", id), err)
	}
	if !ok {
		return status.Error(codes.NotFound, "order not found")
	}
	return nil
}
