package relay

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestDedupeClaimSettleForget(t *testing.T) {
	d := NewDedupe(8, time.Minute)

	_, dup := d.Claim("k")
	assert.False(t, dup)
	_, dup = d.Claim("k")
	assert.True(t, dup)

	d.Settle(OrderAck{Key: "k", OrderID: "o1", Saved: true})
	ack, dup := d.Claim("k")
	assert.True(t, dup)
	assert.Equal(t, "o1", ack.OrderID)

	d.Forget("k")
	_, dup = d.Claim("k")
	assert.False(t, dup)
}

func TestDedupeExpires(t *testing.T) {
	d := NewDedupe(8, 20*time.Millisecond)
	d.Claim("k")
	assert.Eventually(t, func() bool {
		_, dup := d.Claim("k")
		return !dup
	}, time.Second, 10*time.Millisecond)
}

func TestBridgeDecodeSkipsOwnOrigin(t *testing.T) {
	b := &Bridge{instance: "a"}

	_, ok := b.decode(kafka.Message{Value: []byte(`{"event":"menuUpdated","frame":{"event":"menuUpdated"},"all":true,"origin":"a"}`)})
	assert.False(t, ok)

	d, ok := b.decode(kafka.Message{Value: []byte(`{"event":"newOrder","frame":{"event":"newOrder"},"stall":"s1","origin":"b"}`)})
	assert.True(t, ok)
	assert.Equal(t, "s1", d.Stall)
	assert.JSONEq(t, `{"event":"newOrder"}`, string(d.Frame))

	_, ok = b.decode(kafka.Message{Value: []byte(`not json`)})
	assert.False(t, ok)

	_, ok = b.decode(kafka.Message{Value: []byte(`{"event":"newOrder","stall":"s1","origin":"b"}`)})
	assert.False(t, ok, "a delivery without a frame is dropped")
}
