// Package relay is the websocket event hub: stall and student rooms, order acks and
// idempotency, and an optional Kafka bridge between instances.
package relay

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
)

// Delivery is one frame and its audience. Clients without subscriptions always receive it.
type Delivery struct {
	Event   string          `json:"event"`
	Frame   json.RawMessage `json:"frame"`
	Stall   string          `json:"stall,omitempty"`
	Student string          `json:"student,omitempty"`
	// All sends to every client regardless of subscriptions.
	All    bool   `json:"all,omitempty"`
	Origin string `json:"origin"`

	sender  *Client
	private bool
}

func (d Delivery) reaches(c *Client) bool {
	if d.private {
		return c == d.sender
	}
	if d.All || c == d.sender || c.global() {
		return true
	}
	return (d.Stall != "" && c.stall == d.Stall) || (d.Student != "" && c.student == d.Student)
}

// Forwarder carries locally originated deliveries to other instances.
type Forwarder interface {
	Forward(d Delivery)
}

type Hub struct {
	instance string
	orders   OrderRecorder
	dedupe   *Dedupe
	forward  Forwarder
	timeout  time.Duration

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	deliveries chan Delivery
	queries    chan chan int
	done       chan struct{}
}

type Option func(*Hub)

func WithForwarder(f Forwarder) Option { return func(h *Hub) { h.forward = f } }

// WithStoreTimeout bounds the persistence step of newOrder.
func WithStoreTimeout(d time.Duration) Option { return func(h *Hub) { h.timeout = d } }

// NewHub builds a hub. orders may be nil, in which case newOrder is relayed without persistence.
func NewHub(instance string, orders OrderRecorder, dedupe *Dedupe, opts ...Option) *Hub {
	h := &Hub{
		instance:   instance,
		orders:     orders,
		dedupe:     dedupe,
		timeout:    5 * time.Second,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliveries: make(chan Delivery, 256),
		queries:    make(chan chan int),
		done:       make(chan struct{}),
	}
	for _, o := range opts {
		o(h)
	}
	if h.dedupe == nil {
		h.dedupe = NewDedupe(0, 10*time.Minute)
	}
	return h
}

func (h *Hub) Instance() string { return h.instance }

// Run owns the client set. It returns when ctx is done, closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		case q := <-h.queries:
			q <- len(h.clients)
		case c := <-h.register:
			h.clients[c] = struct{}{}
			log.WithFields(log.Fields{"stall": c.stall, "student": c.student, "clients": len(h.clients)}).Debug("[relay] connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				log.WithField("clients", len(h.clients)).Debug("[relay] disconnected")
			}
		case d := <-h.deliveries:
			for c := range h.clients {
				if !d.reaches(c) {
					continue
				}
				select {
				case c.send <- d.Frame:
				default:
					// slow consumer
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	q := make(chan int, 1)
	select {
	case h.queries <- q:
		return <-q
	case <-h.done:
		return 0
	}
}

// Publish fans a locally originated delivery out and forwards it to other instances.
func (h *Hub) Publish(d Delivery) {
	d.Origin = h.instance
	if h.forward != nil {
		h.forward.Forward(d)
	}
	h.enqueue(d)
}

// Inject delivers a frame received from another instance. It is never forwarded again.
func (h *Hub) Inject(d Delivery) {
	d.sender = nil
	h.enqueue(d)
}

func (h *Hub) enqueue(d Delivery) {
	select {
	case h.deliveries <- d:
	case <-h.done:
	}
}

func (h *Hub) attach(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// reply sends a frame to one client only.
func (h *Hub) reply(c *Client, event string, data any) {
	frame, err := encode(event, data, "")
	if err != nil {
		log.WithError(err).Error("[relay] encode reply")
		return
	}
	h.enqueue(Delivery{Event: event, Frame: frame, Origin: h.instance, sender: c, private: true})
}
