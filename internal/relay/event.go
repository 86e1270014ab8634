package relay

import (
	"encoding/json"

	"github.com/MikeMC777/campus-eats/internal/order"
	"github.com/MikeMC777/campus-eats/internal/stall"
)

const (
	EventNewOrder      = "newOrder"
	EventUpdateStatus  = "updateStatus"
	EventMenuUpdated   = "menuUpdated"
	EventOrderAck      = "orderAck"
	EventOrderNotSaved = "orderNotSaved"
	EventError         = "error"
)

// Envelope is the wire frame in both directions.
type Envelope struct {
	Event          string          `json:"event"`
	Data           json.RawMessage `json:"data,omitempty"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
}

type NewOrder struct {
	StallID   string      `json:"stallID"`
	StallName string      `json:"stallName"`
	Order     order.Order `json:"order"`
}

// StatusUpdate carries both the machine status and the display message. Field matching is
// case-insensitive, so studentId/stallId from older clients route the same way.
type StatusUpdate struct {
	OrderID   string `json:"orderId"`
	StudentID string `json:"studentID,omitempty"`
	StallID   string `json:"stallID,omitempty"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

type MenuUpdate struct {
	StallID string           `json:"stallID"`
	Menu    []stall.MenuItem `json:"menu"`
}

type OrderAck struct {
	Key       string `json:"key"`
	OrderID   string `json:"orderId"`
	Saved     bool   `json:"saved"`
	Duplicate bool   `json:"duplicate"`

	stall string // stall the key was settled for
}

type OrderNotSaved struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}

func encode(event string, data any, key string) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw, IdempotencyKey: key})
}
