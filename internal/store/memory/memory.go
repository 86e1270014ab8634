// Package memory keeps every repository in process memory. It backs tests and STORE_DRIVER=memory.
package memory

import (
	"sync"

	"github.com/MikeMC777/campus-eats/internal/order"
	"github.com/MikeMC777/campus-eats/internal/review"
	"github.com/MikeMC777/campus-eats/internal/stall"
	"github.com/MikeMC777/campus-eats/internal/student"
)

// DB is one lock over all collections, so a single write is atomic across the document it touches.
type DB struct {
	mu       sync.RWMutex
	students map[string]*student.Student
	stalls   map[string]*stall.Stall
	orders   map[string]*order.Order
	reviews  map[string]*review.Review
}

func New() *DB {
	return &DB{
		students: make(map[string]*student.Student),
		stalls:   make(map[string]*stall.Stall),
		orders:   make(map[string]*order.Order),
		reviews:  make(map[string]*review.Review),
	}
}

func (db *DB) Students() *StudentRepo { return &StudentRepo{db: db} }
func (db *DB) Stalls() *StallRepo     { return &StallRepo{db: db} }
func (db *DB) Orders() *OrderRepo     { return &OrderRepo{db: db} }
func (db *DB) Reviews() *ReviewRepo   { return &ReviewRepo{db: db} }

func cloneStudent(s *student.Student) *student.Student {
	c := *s
	c.Favorites = append([]student.Favorite{}, s.Favorites...)
	return &c
}

func cloneStall(s *stall.Stall) *stall.Stall {
	c := *s
	c.Menu = make([]stall.MenuItem, len(s.Menu))
	for i, it := range s.Menu {
		it.CustomizationOptions = append([]stall.CustomizationOption{}, it.CustomizationOptions...)
		c.Menu[i] = it
	}
	return &c
}

func cloneOrder(o *order.Order) *order.Order {
	c := *o
	c.Items = append([]order.Item{}, o.Items...)
	return &c
}

func cloneReview(r *review.Review) *review.Review {
	c := *r
	c.Images = append([]string{}, r.Images...)
	return &c
}
