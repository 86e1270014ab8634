package main

import (
	"context"
	"time"

	"github.com/MikeMC777/campus-eats/internal/credential"
	"github.com/MikeMC777/campus-eats/internal/order"
	"github.com/MikeMC777/campus-eats/internal/relay"
	"github.com/MikeMC777/campus-eats/internal/review"
	"github.com/MikeMC777/campus-eats/internal/stall"
	"github.com/MikeMC777/campus-eats/internal/student"
)

type app struct {
	students *student.Service
	stalls   *stall.Service
	orders   *order.Service
	reviews  *review.Service
	hub      *relay.Hub
	ready    func(ctx context.Context) error
}

// newApp wires the services over r. Orders placed through the relay use their own order service
// without a notifier, since the relay broadcasts those frames itself.
func newApp(r repos, creds credential.Checker, instance string, dedupe *relay.Dedupe, timeout time.Duration, opts ...relay.Option) app {
	relayOrders := order.NewService(r.orders, r.students, r.stalls, nil)
	opts = append([]relay.Option{relay.WithStoreTimeout(timeout)}, opts...)
	hub := relay.NewHub(instance, relay.OrderStore{Orders: relayOrders}, dedupe, opts...)
	notify := hub.Notifier()

	return app{
		students: student.NewService(r.students, r.stalls, creds),
		stalls:   stall.NewService(r.stalls, creds, r.students, notify),
		orders:   order.NewService(r.orders, r.students, r.stalls, notify),
		reviews:  review.NewService(r.reviews, r.students, r.stalls),
		hub:      hub,
		ready:    r.ping,
	}
}
