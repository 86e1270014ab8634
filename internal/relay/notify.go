package relay

import (
	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/campus-eats/internal/order"
	"github.com/MikeMC777/campus-eats/internal/stall"
)

// Notifier publishes committed REST writes through the hub.
type Notifier struct{ hub *Hub }

func (h *Hub) Notifier() Notifier { return Notifier{hub: h} }

func (n Notifier) publish(event string, data any, key string, d Delivery) {
	frame, err := encode(event, data, key)
	if err != nil {
		log.WithError(err).WithField("event", event).Error("[relay] encode")
		return
	}
	d.Event, d.Frame = event, frame
	n.hub.Publish(d)
}

// OrderPlaced announces the order and claims its id, so a client echoing it over the socket
// is acked as a duplicate.
func (n Notifier) OrderPlaced(o *order.Order) {
	n.hub.dedupe.Settle(OrderAck{Key: o.ID, OrderID: o.ID, Saved: true, stall: o.StallID})
	n.publish(EventNewOrder, NewOrder{StallID: o.StallID, StallName: o.StallName, Order: *o}, o.ID,
		Delivery{Stall: o.StallID, Student: o.StudentID})
}

func (n Notifier) StatusChanged(o *order.Order) {
	n.publish(EventUpdateStatus, StatusUpdate{
		OrderID:   o.ID,
		StudentID: o.StudentID,
		StallID:   o.StallID,
		Status:    string(o.Status),
		Message:   o.StatusMessage,
	}, "", Delivery{Stall: o.StallID, Student: o.StudentID})
}

func (n Notifier) MenuUpdated(stallID string, menu []stall.MenuItem) {
	n.publish(EventMenuUpdated, MenuUpdate{StallID: stallID, Menu: menu}, "", Delivery{All: true})
}
