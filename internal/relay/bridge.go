package relay

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// Bridge mirrors deliveries between relay instances over a Kafka topic. Each instance reads
// with its own consumer group so every instance sees every message.
type Bridge struct {
	instance string
	writer   *kafka.Writer
	reader   *kafka.Reader
	out      chan Delivery
}

func NewBridge(brokers []string, topic, instance string) *Bridge {
	return &Bridge{
		instance: instance,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			Topic:       topic,
			GroupID:     "relay-" + instance,
			StartOffset: kafka.LastOffset,
			MinBytes:    1,
			MaxBytes:    1 << 20,
		}),
		out: make(chan Delivery, 1024),
	}
}

// Forward queues d for the producer without blocking the caller.
func (b *Bridge) Forward(d Delivery) {
	select {
	case b.out <- d:
	default:
		log.WithField("event", d.Event).Warn("[relay] bridge queue full, delivery not forwarded")
	}
}

// Run produces forwarded deliveries and injects remote ones into hub until ctx is done.
func (b *Bridge) Run(ctx context.Context, hub *Hub) {
	go b.produce(ctx)
	b.consume(ctx, hub)
}

func (b *Bridge) produce(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case d := <-b.out:
			value, err := json.Marshal(d)
			if err != nil {
				log.WithError(err).Error("[relay] bridge encode")
				continue
			}
			msg := kafka.Message{Key: []byte(d.Stall), Value: value}
			if err := b.writer.WriteMessages(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("[relay] bridge write")
			}
		}
	}
}

func (b *Bridge) consume(ctx context.Context, hub *Hub) {
	for {
		msg, err := b.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.WithError(err).Error("[relay] bridge read")
			}
			return
		}
		d, ok := b.decode(msg)
		if !ok {
			continue
		}
		hub.Inject(d)
	}
}

// decode returns false for undecodable messages and for ones this instance produced.
func (b *Bridge) decode(msg kafka.Message) (Delivery, bool) {
	var d Delivery
	if err := json.Unmarshal(msg.Value, &d); err != nil {
		log.WithError(err).WithField("offset", msg.Offset).Warn("[relay] bridge skip")
		return Delivery{}, false
	}
	if d.Origin == b.instance || len(d.Frame) == 0 {
		return Delivery{}, false
	}
	return d, true
}

func (b *Bridge) Close() error {
	return errors.Join(b.writer.Close(), b.reader.Close())
}
