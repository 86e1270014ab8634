package relay

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Dedupe remembers idempotency keys for a bounded time and size.
type Dedupe struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, OrderAck]
}

func NewDedupe(size int, ttl time.Duration) *Dedupe {
	if size <= 0 {
		size = 4096
	}
	return &Dedupe{cache: expirable.NewLRU[string, OrderAck](size, nil, ttl)}
}

// Claim records key if unseen. If it was already seen it returns the stored ack and true.
func (d *Dedupe) Claim(key string) (OrderAck, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ack, ok := d.cache.Get(key); ok {
		return ack, true
	}
	d.cache.Add(key, OrderAck{Key: key})
	return OrderAck{}, false
}

// Settle stores the outcome for a claimed key so later duplicates can report it.
func (d *Dedupe) Settle(ack OrderAck) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache.Add(ack.Key, ack)
}

// Forget drops a key whose first attempt failed so a retry is handled afresh.
func (d *Dedupe) Forget(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache.Remove(key)
}
