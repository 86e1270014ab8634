package relay

import (
	"context"
	"encoding/json"
	"errors"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MikeMC777/campus-eats/internal/order"
)

// OrderRecorder persists an order announced over the relay. existed reports that the order id
// was already stored, in which case nothing was written.
type OrderRecorder interface {
	Record(ctx context.Context, in NewOrder) (o *order.Order, existed bool, err error)
}

// handle runs on the sender's read goroutine, so a slow store only stalls that client.
func (h *Hub) handle(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
		h.reply(c, EventError, ErrorEvent{Message: "malformed frame"})
		return
	}
	switch env.Event {
	case EventNewOrder:
		h.newOrder(c, env, raw)
	case EventUpdateStatus:
		var su StatusUpdate
		if err := json.Unmarshal(env.Data, &su); err != nil {
			h.reply(c, EventError, ErrorEvent{Message: "malformed updateStatus payload"})
			return
		}
		h.Publish(Delivery{Event: env.Event, Frame: raw, Stall: su.StallID, Student: su.StudentID, sender: c})
	case EventMenuUpdated:
		h.Publish(Delivery{Event: env.Event, Frame: raw, All: true, sender: c})
	default:
		h.reply(c, EventError, ErrorEvent{Message: "unknown event " + env.Event})
	}
}

func (h *Hub) newOrder(c *Client, env Envelope, raw []byte) {
	var no NewOrder
	if err := json.Unmarshal(env.Data, &no); err != nil {
		h.reply(c, EventError, ErrorEvent{Message: "malformed newOrder payload"})
		return
	}
	if no.StallID == "" {
		no.StallID = no.Order.StallID
	}
	if no.StallID == "" {
		h.reply(c, EventError, ErrorEvent{Message: "newOrder requires stallID"})
		return
	}
	key := env.IdempotencyKey
	if key == "" {
		key = no.Order.ID
	}
	if key != "" {
		if prev, dup := h.dedupe.Claim(key); dup {
			if prev.stall != "" && prev.stall != no.StallID {
				h.reply(c, EventOrderNotSaved, OrderNotSaved{Key: key, Reason: "order id belongs to another order"})
				return
			}
			prev.Key, prev.Duplicate = key, true
			h.reply(c, EventOrderAck, prev)
			return
		}
	}

	if h.orders == nil {
		h.Publish(Delivery{Event: EventNewOrder, Frame: raw, Stall: no.StallID, sender: c})
		ack := OrderAck{Key: key, OrderID: no.Order.ID, stall: no.StallID}
		if key != "" {
			h.dedupe.Settle(ack)
		}
		h.reply(c, EventOrderAck, ack)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	saved, existed, err := h.orders.Record(ctx, no)
	cancel()
	if err != nil {
		// still announce it; the sender learns it was not stored
		log.WithError(err).WithFields(log.Fields{"stall": no.StallID, "key": key}).Warn("[relay] newOrder not saved")
		h.Publish(Delivery{Event: EventNewOrder, Frame: raw, Stall: no.StallID, sender: c})
		if key != "" {
			h.dedupe.Forget(key)
		}
		h.reply(c, EventOrderNotSaved, OrderNotSaved{Key: key, Reason: reason(err)})
		return
	}
	ack := OrderAck{Key: key, OrderID: saved.ID, Saved: true, Duplicate: existed, stall: no.StallID}
	if key != "" {
		h.dedupe.Settle(ack)
	}
	if !existed {
		h.Publish(Delivery{Event: EventNewOrder, Frame: raw, Stall: no.StallID, Student: saved.StudentID, sender: c})
	}
	h.reply(c, EventOrderAck, ack)
}

func reason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "store unavailable"
	}
	st, ok := status.FromError(err)
	if !ok {
		return "internal error"
	}
	switch st.Code() {
	case codes.Internal, codes.Unknown:
		return "internal error"
	case codes.Unavailable:
		return "store unavailable"
	}
	return st.Message()
}

// OrderPlacer is the part of the order service the relay persists through.
type OrderPlacer interface {
	Get(ctx context.Context, id string) (*order.Order, error)
	PlaceForStall(ctx context.Context, in order.StallPlaceRequest) (*order.Order, error)
}

// OrderStore records relayed orders through the order service.
type OrderStore struct {
	Orders OrderPlacer
}

func (s OrderStore) Record(ctx context.Context, in NewOrder) (*order.Order, bool, error) {
	if id := in.Order.ID; id != "" {
		o, err := s.Orders.Get(ctx, id)
		if err == nil {
			return claimed(o, in)
		}
		if status.Code(err) != codes.NotFound {
			return nil, false, err
		}
	}
	o, err := s.Orders.PlaceForStall(ctx, order.StallPlaceRequest{
		ID:            in.Order.ID,
		StallID:       in.StallID,
		StudentID:     in.Order.StudentID,
		Name:          in.Order.Name,
		Items:         in.Order.Items,
		PickupTime:    in.Order.PickupTime,
		PaymentStatus: string(in.Order.PaymentStatus),
		TransactionID: in.Order.TransactionID,
	})
	if status.Code(err) == codes.AlreadyExists {
		if o, err = s.Orders.Get(ctx, in.Order.ID); err != nil {
			return nil, false, err
		}
		return claimed(o, in)
	}
	if err != nil {
		return nil, false, err
	}
	return o, false, nil
}

// claimed accepts a stored order as the announced one only when stall and student agree.
func claimed(o *order.Order, in NewOrder) (*order.Order, bool, error) {
	if o.StallID != in.StallID || (in.Order.StudentID != "" && o.StudentID != in.Order.StudentID) {
		return nil, false, status.Errorf(codes.AlreadyExists, "order id %s belongs to another order", o.ID)
	}
	return o, true, nil
}
