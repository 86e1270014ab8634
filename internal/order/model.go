package order

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() { decimal.MarshalJSONWithoutQuotes = true }

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

const DefaultPickupTime = "Not specified"

// Item is one order line. Clients send the label as either "item" or "name".
type Item struct {
	Item  string          `json:"item"  bson:"item"`
	Price decimal.Decimal `json:"price" bson:"price"`
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var raw struct {
		Item  string          `json:"item"`
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	it.Item = raw.Item
	if it.Item == "" {
		it.Item = raw.Name
	}
	it.Price = raw.Price
	return nil
}

type Order struct {
	ID            string          `json:"id"                      bson:"_id"`
	StudentID     string          `json:"studentId,omitempty"     bson:"studentId,omitempty"`
	StallID       string          `json:"stallId,omitempty"       bson:"stallId,omitempty"`
	StallName     string          `json:"stallName,omitempty"     bson:"stallName,omitempty"`
	Name          string          `json:"name"                    bson:"name"`
	Items         []Item          `json:"items"                   bson:"items"`
	Total         decimal.Decimal `json:"total"                   bson:"total"`
	Status        Status          `json:"status"                  bson:"status"`
	StatusMessage string          `json:"statusMessage,omitempty" bson:"statusMessage,omitempty"`
	PickupTime    string          `json:"pickupTime"              bson:"pickupTime"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"           bson:"paymentStatus"`
	TransactionID string          `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"               bson:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"               bson:"updatedAt"`
}

// Total sums item prices, rounded to cents.
func Total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price)
	}
	return sum.Round(2)
}

// Transition reports whether from -> to is allowed. Only pending can be left, and only once.
func Transition(from, to Status) bool {
	return from == StatusPending && (to == StatusCompleted || to == StatusCancelled)
}
