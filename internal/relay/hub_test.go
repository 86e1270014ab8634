package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MikeMC777/campus-eats/internal/order"
)

type stubForwarder struct {
	mu  sync.Mutex
	got []Delivery
}

func (f *stubForwarder) Forward(d Delivery) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, d)
}

func (f *stubForwarder) forwarded() []Delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Delivery(nil), f.got...)
}

type stubRecorder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubRecorder) Record(_ context.Context, in NewOrder) (*order.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, false, s.err
	}
	o := in.Order
	if o.ID == "" {
		o.ID = "generated"
	}
	return &o, false, nil
}

func (s *stubRecorder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func startHub(t *testing.T, rec OrderRecorder, opts ...Option) (*Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub("test", rec, NewDedupe(16, time.Minute), opts...)
	go h.Run(ctx)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return h, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, h *Hub, url string, want int) *websocket.Conn {
	t.Helper()
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.Eventually(t, func() bool { return h.Len() == want }, 2*time.Second, 5*time.Millisecond)
	return c
}

func read(t *testing.T, c *websocket.Conn) Envelope {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := c.ReadMessage()
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	return env
}

func readRaw(t *testing.T, c *websocket.Conn) string {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := c.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func assertSilent(t *testing.T, c *websocket.Conn) {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	_, msg, err := c.ReadMessage()
	assert.Error(t, err, "unexpected frame %s", msg)
}

func send(t *testing.T, c *websocket.Conn, frame string) {
	t.Helper()
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func TestBroadcastReachesEveryGlobalClientVerbatim(t *testing.T) {
	h, url := startHub(t, nil)
	a := dial(t, h, url, 1)
	b := dial(t, h, url, 2)
	c := dial(t, h, url, 3)

	frame := `{"event":"menuUpdated","data":{"stallID":"s1","menu":[]}}`
	send(t, a, frame)
	for _, conn := range []*websocket.Conn{a, b, c} {
		assert.Equal(t, frame, readRaw(t, conn))
	}
}

func TestNewOrderIsRoutedToItsStallRoom(t *testing.T) {
	h, url := startHub(t, nil)
	s1 := dial(t, h, url+"?stall=s1", 1)
	s2 := dial(t, h, url+"?stall=s2", 2)
	global := dial(t, h, url, 3)
	sender := dial(t, h, url+"?student=x", 4)

	frame := `{"event":"newOrder","data":{"stallID":"s1","stallName":"Dosa","order":{"id":"o1","items":[{"item":"Idli","price":30}]}}}`
	send(t, sender, frame)

	assert.Equal(t, frame, readRaw(t, s1))
	assert.Equal(t, frame, readRaw(t, global))
	assert.Equal(t, frame, readRaw(t, sender))

	ack := read(t, sender)
	require.Equal(t, EventOrderAck, ack.Event)
	var a OrderAck
	require.NoError(t, json.Unmarshal(ack.Data, &a))
	assert.Equal(t, OrderAck{Key: "o1", OrderID: "o1"}, a)

	assertSilent(t, s2)
}

func TestDuplicateNewOrderIsAckedNotRebroadcast(t *testing.T) {
	rec := &stubRecorder{}
	h, url := startHub(t, rec)
	stallConn := dial(t, h, url+"?stall=s1", 1)
	sender := dial(t, h, url+"?student=x", 2)

	frame := `{"event":"newOrder","idempotencyKey":"k1","data":{"stallID":"s1","order":{"id":"o1","items":[{"name":"Dosa","price":60}]}}}`
	send(t, sender, frame)
	assert.Equal(t, frame, readRaw(t, stallConn))
	assert.Equal(t, EventNewOrder, read(t, sender).Event)
	first := read(t, sender)
	require.Equal(t, EventOrderAck, first.Event)

	send(t, sender, frame)
	dup := read(t, sender)
	require.Equal(t, EventOrderAck, dup.Event)
	var a OrderAck
	require.NoError(t, json.Unmarshal(dup.Data, &a))
	assert.True(t, a.Duplicate)
	assert.True(t, a.Saved)
	assert.Equal(t, "o1", a.OrderID)

	assertSilent(t, stallConn)
	assert.Equal(t, 1, rec.count())
}

func TestFailedPersistenceStillBroadcasts(t *testing.T) {
	rec := &stubRecorder{err: status.Error(codes.NotFound, "stall not found")}
	h, url := startHub(t, rec)
	stallConn := dial(t, h, url+"?stall=s1", 1)
	sender := dial(t, h, url+"?student=x", 2)

	frame := `{"event":"newOrder","data":{"stallID":"s1","order":{"id":"o9","items":[{"item":"Vada","price":20}]}}}`
	send(t, sender, frame)

	assert.Equal(t, frame, readRaw(t, stallConn))
	assert.Equal(t, EventNewOrder, read(t, sender).Event)
	ns := read(t, sender)
	require.Equal(t, EventOrderNotSaved, ns.Event)
	var body OrderNotSaved
	require.NoError(t, json.Unmarshal(ns.Data, &body))
	assert.Equal(t, OrderNotSaved{Key: "o9", Reason: "stall not found"}, body)

	// the key is released so a retry is attempted again
	rec.mu.Lock()
	rec.err = nil
	rec.mu.Unlock()
	send(t, sender, frame)
	assert.Equal(t, EventNewOrder, read(t, sender).Event)
	assert.Equal(t, EventOrderAck, read(t, sender).Event)
}

func TestInternalErrorsAreRedacted(t *testing.T) {
	assert.Equal(t, "internal error", reason(errors.New("pq: password authentication failed")))
	assert.Equal(t, "internal error", reason(status.Error(codes.Internal, "create order error: boom")))
	assert.Equal(t, "store unavailable", reason(status.Error(codes.Unavailable, "create order: store unavailable")))
}

func TestUpdateStatusRoutesToStudentRoom(t *testing.T) {
	h, url := startHub(t, nil)
	stu := dial(t, h, url+"?student=u1", 1)
	other := dial(t, h, url+"?student=u2", 2)
	stallConn := dial(t, h, url+"?stall=s1", 3)

	frame := `{"event":"updateStatus","data":{"orderId":"o1","studentId":"u1","status":"completed","message":"Your order has been Accepted"}}`
	send(t, stallConn, frame)
	assert.Equal(t, frame, readRaw(t, stu))
	assert.Equal(t, frame, readRaw(t, stallConn))
	assertSilent(t, other)
}

func TestUnknownEventAnswersSenderOnly(t *testing.T) {
	h, url := startHub(t, nil)
	a := dial(t, h, url, 1)
	b := dial(t, h, url, 2)

	send(t, a, `{"event":"dance","data":{}}`)
	env := read(t, a)
	assert.Equal(t, EventError, env.Event)
	assertSilent(t, b)
}

func TestNotifierClaimsOrderID(t *testing.T) {
	rec := &stubRecorder{}
	h, url := startHub(t, rec)
	stallConn := dial(t, h, url+"?stall=s1", 1)
	echo := dial(t, h, url+"?student=u1", 2)

	o := &order.Order{ID: "o5", StudentID: "u1", StallID: "s1", StallName: "Dosa", Items: []order.Item{{Item: "Idli", Price: decimal.NewFromInt(30)}}}
	h.Notifier().OrderPlaced(o)

	placed := read(t, stallConn)
	assert.Equal(t, EventNewOrder, placed.Event)
	assert.Equal(t, "o5", placed.IdempotencyKey)
	assert.Equal(t, EventNewOrder, read(t, echo).Event)

	send(t, echo, `{"event":"newOrder","data":{"stallID":"s1","order":{"id":"o5","items":[{"item":"Idli","price":30}]}}}`)
	ack := read(t, echo)
	require.Equal(t, EventOrderAck, ack.Event)
	var a OrderAck
	require.NoError(t, json.Unmarshal(ack.Data, &a))
	assert.True(t, a.Duplicate)
	assertSilent(t, stallConn)
	assert.Equal(t, 0, rec.count())
}

func TestNotifiedOrderIDIsNotAckedForAnotherStall(t *testing.T) {
	rec := &stubRecorder{}
	h, url := startHub(t, rec)
	other := dial(t, h, url+"?stall=s2", 1)

	h.Notifier().OrderPlaced(&order.Order{ID: "o7", StallID: "s1", Items: []order.Item{{Item: "Idli", Price: decimal.NewFromInt(30)}}})

	send(t, other, `{"event":"newOrder","data":{"stallID":"s2","order":{"id":"o7","items":[{"item":"Idli","price":30}]}}}`)
	env := read(t, other)
	require.Equal(t, EventOrderNotSaved, env.Event)
	var ns OrderNotSaved
	require.NoError(t, json.Unmarshal(env.Data, &ns))
	assert.Equal(t, "o7", ns.Key)
	assert.Equal(t, 0, rec.count())
}

func TestPublishForwardsButInjectDoesNot(t *testing.T) {
	fwd := &stubForwarder{}
	h, url := startHub(t, nil, WithForwarder(fwd))
	room := dial(t, h, url+"?stall=s1", 1)
	sender := dial(t, h, url+"?student=x", 2)

	local := `{"event":"updateStatus","data":{"orderId":"o1","stallID":"s1","status":"completed"}}`
	send(t, sender, local)
	assert.Equal(t, local, readRaw(t, room))
	assert.Equal(t, local, readRaw(t, sender))
	require.Eventually(t, func() bool { return len(fwd.forwarded()) == 1 }, time.Second, 5*time.Millisecond)
	got := fwd.forwarded()[0]
	assert.Equal(t, "test", got.Origin)
	assert.Equal(t, "s1", got.Stall)
	assert.JSONEq(t, local, string(got.Frame))

	remote := `{"event":"newOrder","data":{"stallID":"s1","order":{"id":"o2"}}}`
	h.Inject(Delivery{Event: EventNewOrder, Frame: json.RawMessage(remote), Stall: "s1", Origin: "other"})
	assert.Equal(t, remote, readRaw(t, room))
	assertSilent(t, sender)
	assert.Len(t, fwd.forwarded(), 1)
}
