package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/MikeMC777/campus-eats/internal/credential"
	"github.com/MikeMC777/campus-eats/internal/httpx"
	"github.com/MikeMC777/campus-eats/internal/order"
	"github.com/MikeMC777/campus-eats/internal/relay"
	"github.com/MikeMC777/campus-eats/internal/review"
	"github.com/MikeMC777/campus-eats/internal/stall"
	"github.com/MikeMC777/campus-eats/internal/student"
)

//
// ---------- HELPERS ----------
//

func newTestApp(t *testing.T) (app, *gin.Engine) {
	t.Helper()
	a := newApp(memoryRepos(), credential.NewBcrypt(bcrypt.MinCost), uuid.NewString(),
		relay.NewDedupe(128, time.Minute), time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	go a.hub.Run(ctx)
	t.Cleanup(cancel)
	return a, newRouter(a, nil)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func mustDecode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json: %v body=%s", err, w.Body.String())
	}
}

func registerStudent(t *testing.T, r http.Handler, name string) student.Student {
	t.Helper()
	body := `{"name":"` + name + `","email":"` + strings.ToLower(name) + `@campus.edu","password":"pw"}`
	w := do(r, http.MethodPost, "/student/register", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var s student.Student
	mustDecode(t, w, &s)
	return s
}

func registerStall(t *testing.T, r http.Handler, name string) stall.Stall {
	t.Helper()
	body := `{"name":"` + name + `","email":"` + strings.ToLower(name) + `@stalls.edu","password":"pw","cuisineType":"Indian"}`
	w := do(r, http.MethodPost, "/stall/register", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var s stall.Stall
	mustDecode(t, w, &s)
	return s
}

func addItem(t *testing.T, r http.Handler, stallID, name string, price string) stall.Stall {
	t.Helper()
	body := `{"stallID":"` + stallID + `","name":"` + name + `","price":` + price + `}`
	w := do(r, http.MethodPost, "/stall/menu", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var s stall.Stall
	mustDecode(t, w, &s)
	return s
}

//
// ---------- TESTS ----------
//

func TestRegisterAndLogin(t *testing.T) {
	_, r := newTestApp(t)
	s := registerStudent(t, r, "Asha")
	if s.Theme != student.ThemeSystem {
		t.Fatalf("theme=%q, want system", s.Theme)
	}
	if strings.Contains(do(r, http.MethodGet, "/student/"+s.ID, "").Body.String(), "password") {
		t.Fatalf("profile leaks the password hash")
	}

	w := do(r, http.MethodPost, "/student/login", `{"email":"ASHA@campus.edu","password":"pw"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPost, "/student/login", `{"email":"asha@campus.edu","password":"nope"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s (want 401)", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPost, "/student/register", `{"name":"Other","email":"asha@campus.edu","password":"pw"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400 for taken email)", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPost, "/student/register", `{"name":"Bad","email":"not-an-email","password":"pw"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestStallRegisterRejectsUnknownCuisine(t *testing.T) {
	if err := httpx.RegisterValidators(); err != nil {
		t.Fatal(err)
	}
	_, r := newTestApp(t)
	w := do(r, http.MethodPost, "/stall/register", `{"name":"X","email":"x@s.edu","password":"pw","cuisineType":"Thai"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestStallRegisterKind(t *testing.T) {
	_, r := newTestApp(t)
	w := do(r, http.MethodPost, "/stall/register", `{"name":"Y","email":"y@s.edu","password":"pw","kind":"standard"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var st stall.Stall
	mustDecode(t, w, &st)
	if st.Kind != stall.KindStandard {
		t.Fatalf("kind=%q", st.Kind)
	}

	w = do(r, http.MethodPost, "/stall/register", `{"name":"Z","email":"z@s.edu","password":"pw","kind":"deluxe"}`)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), `"kind":"oneof"`) {
		t.Fatalf("status=%d body=%s (want 400 on kind)", w.Code, w.Body.String())
	}
}

func TestOrderLifecycle(t *testing.T) {
	_, r := newTestApp(t)
	stu := registerStudent(t, r, "Ravi")
	st := registerStall(t, r, "Dosa")
	addItem(t, r, st.ID, "Masala Dosa", "60")

	body := `{"studentId":"` + stu.ID + `","stallId":"` + st.ID + `","items":[{"item":"Masala Dosa","price":60},{"name":"Chai","price":30}]}`
	w := do(r, http.MethodPost, "/student/order", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var o order.Order
	mustDecode(t, w, &o)
	if !o.Total.Equal(decimal.NewFromInt(90)) || o.Status != order.StatusPending || o.Name != "Ravi" || o.StallName != "Dosa" {
		t.Fatalf("unexpected order: %+v", o)
	}

	var hist order.ListResponse
	w = do(r, http.MethodGet, "/student/order/"+stu.ID, "")
	mustDecode(t, w, &hist)
	if len(hist.Items) != 1 || hist.Items[0].ID != o.ID {
		t.Fatalf("history=%s", w.Body.String())
	}
	var recv order.ListResponse
	w = do(r, http.MethodGet, "/stall/"+st.ID+"/orders", "")
	mustDecode(t, w, &recv)
	if len(recv.Items) != 1 {
		t.Fatalf("stall orders=%s", w.Body.String())
	}

	path := "/stall/" + st.ID + "/orders/" + o.ID + "/status"
	w = do(r, http.MethodPut, path, `{"status":"shipped"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPut, path, `{"status":"completed","message":"Ready at the counter"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPut, path, `{"status":"cancelled"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s (want 409)", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPut, "/stall/"+uuid.NewString()+"/orders/"+o.ID+"/status", `{"status":"cancelled"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (want 404 for another stall)", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/orders/"+o.ID, "")
	mustDecode(t, w, &o)
	if o.Status != order.StatusCompleted || o.StatusMessage != "Ready at the counter" {
		t.Fatalf("order=%s", w.Body.String())
	}

	w = do(r, http.MethodDelete, "/student/"+uuid.NewString()+"/orders/"+o.ID, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (want 404 for another student)", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPost, "/stall/deleteOrder", `{"stallId":"`+st.ID+`","orderId":"`+o.ID+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/orders/"+o.ID, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (want 404 after delete)", w.Code, w.Body.String())
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	_, r := newTestApp(t)
	stu := registerStudent(t, r, "Meena")
	cases := []struct {
		name string
		body string
		want int
	}{
		{"no items", `{"studentId":"` + stu.ID + `","items":[]}`, http.StatusBadRequest},
		{"zero price", `{"studentId":"` + stu.ID + `","items":[{"item":"Tea","price":0}]}`, http.StatusBadRequest},
		{"unknown student", `{"studentId":"` + uuid.NewString() + `","items":[{"item":"Tea","price":10}]}`, http.StatusNotFound},
		{"unknown stall", `{"studentId":"` + stu.ID + `","stallId":"` + uuid.NewString() + `","items":[{"item":"Tea","price":10}]}`, http.StatusNotFound},
		{"broken json", `{"studentId":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/student/order", tc.body)
			if w.Code != tc.want {
				t.Fatalf("status=%d body=%s (want %d)", w.Code, w.Body.String(), tc.want)
			}
		})
	}
}

func TestStallOrderGuestAndDuplicate(t *testing.T) {
	_, r := newTestApp(t)
	st := registerStall(t, r, "Noodles")
	id := uuid.NewString()
	body := `{"id":"` + id + `","stallId":"` + st.ID + `","items":[{"item":"Hakka","price":80}]}`
	w := do(r, http.MethodPost, "/stall/order", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var o order.Order
	mustDecode(t, w, &o)
	if o.Name != "Guest" || o.PickupTime != order.DefaultPickupTime {
		t.Fatalf("order=%s", w.Body.String())
	}
	w = do(r, http.MethodPost, "/stall/order", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s (want 409)", w.Code, w.Body.String())
	}
}

func TestMenuEditing(t *testing.T) {
	_, r := newTestApp(t)
	st := registerStall(t, r, "Wraps")
	st = addItem(t, r, st.ID, "Paneer Wrap", "70")
	if len(st.Menu) != 1 || st.Menu[0].Category != stall.DefaultCategory || !st.Menu[0].IsAvailable {
		t.Fatalf("menu=%+v", st.Menu)
	}
	itemID := st.Menu[0].ID

	w := do(r, http.MethodPut, "/stall/menu/"+st.ID+"/"+itemID, `{"price":75,"isAvailable":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	mustDecode(t, w, &st)
	if !st.Menu[0].Price.Equal(decimal.NewFromInt(75)) || st.Menu[0].IsAvailable || st.Menu[0].Name != "Paneer Wrap" {
		t.Fatalf("menu=%+v", st.Menu)
	}
	w = do(r, http.MethodPut, "/stall/menu/"+st.ID+"/"+itemID, `{"price":-1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
	w = do(r, http.MethodDelete, "/stall/menu/"+st.ID+"/"+uuid.NewString(), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (want 404)", w.Code, w.Body.String())
	}
	w = do(r, http.MethodDelete, "/stall/menu/"+st.ID+"/"+itemID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	mustDecode(t, w, &st)
	if len(st.Menu) != 0 {
		t.Fatalf("menu=%+v", st.Menu)
	}

	var list stall.ListResponse
	mustDecode(t, do(r, http.MethodGet, "/stall", ""), &list)
	if len(list.Items) != 1 {
		t.Fatalf("stalls=%+v", list.Items)
	}
}

func TestPreferences(t *testing.T) {
	if err := httpx.RegisterValidators(); err != nil {
		t.Fatal(err)
	}
	_, r := newTestApp(t)
	stu := registerStudent(t, r, "Kiran")
	st := registerStall(t, r, "Chaat")
	base := "/preferences/" + stu.ID

	w := do(r, http.MethodPut, base+"/theme", `{"themePreference":"neon"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPut, base+"/theme", `{"themePreference":"dark"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var theme student.ThemeResponse
	mustDecode(t, do(r, http.MethodGet, base+"/theme", ""), &theme)
	if theme.ThemePreference != student.ThemeDark {
		t.Fatalf("theme=%q", theme.ThemePreference)
	}

	fav := `{"stallId":"` + st.ID + `","menuItemId":"all"}`
	if w = do(r, http.MethodPost, base+"/favorites", fav); w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w = do(r, http.MethodPost, base+"/favorites", fav); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400 for duplicate)", w.Code, w.Body.String())
	}
	item := `{"stallId":"` + st.ID + `","menuItemId":"Pani Puri"}`
	if w = do(r, http.MethodPost, base+"/favorites", item); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400, stall already favorite)", w.Code, w.Body.String())
	}
	missing := `{"stallId":"` + uuid.NewString() + `","menuItemId":"all"}`
	if w = do(r, http.MethodPost, base+"/favorites", missing); w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (want 404)", w.Code, w.Body.String())
	}

	var favs struct {
		Items []student.FavoriteView `json:"items"`
	}
	mustDecode(t, do(r, http.MethodGet, base+"/favorites", ""), &favs)
	if len(favs.Items) != 1 || favs.Items[0].Stall == nil || favs.Items[0].Stall.Name != "Chaat" {
		t.Fatalf("favorites=%+v", favs.Items)
	}

	if w = do(r, http.MethodDelete, "/stall/"+st.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	mustDecode(t, do(r, http.MethodGet, base+"/favorites", ""), &favs)
	if len(favs.Items) != 0 {
		t.Fatalf("favorites survived stall deletion: %+v", favs.Items)
	}
}

func TestReviewsAndRecompute(t *testing.T) {
	_, r := newTestApp(t)
	a := registerStudent(t, r, "Anil")
	b := registerStudent(t, r, "Bina")
	st := registerStall(t, r, "Idli")
	addItem(t, r, st.ID, "Idli", "40")

	post := func(studentID string, rating int, item string) review.Review {
		t.Helper()
		body, _ := json.Marshal(review.CreateRequest{StudentID: studentID, StallID: st.ID, MenuItemID: item, Rating: rating, Review: "ok"})
		w := do(r, http.MethodPost, "/reviews", string(body))
		if w.Code != http.StatusCreated {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		var rv review.Review
		mustDecode(t, w, &rv)
		return rv
	}
	post(a.ID, 4, "Idli")
	second := post(b.ID, 2, "")

	var got stall.Stall
	mustDecode(t, do(r, http.MethodGet, "/stall/"+st.ID, ""), &got)
	if got.AverageRating != 3.0 || got.TotalReviews != 2 {
		t.Fatalf("rating=%v/%d, want 3.0/2", got.AverageRating, got.TotalReviews)
	}

	var list review.ListResponse
	mustDecode(t, do(r, http.MethodGet, "/reviews/stall/"+st.ID+"/menu-item/Idli", ""), &list)
	if len(list.Items) != 1 || list.Items[0].StudentName != "Anil" {
		t.Fatalf("reviews=%+v", list.Items)
	}

	w := do(r, http.MethodPost, "/reviews", `{"studentId":"`+a.ID+`","stallId":"`+st.ID+`","rating":6,"review":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}

	if w = do(r, http.MethodPut, "/reviews/"+second.ID, `{"rating":5}`); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var sum review.Summary
	mustDecode(t, do(r, http.MethodPost, "/reviews/stall/"+st.ID+"/recompute", ""), &sum)
	if sum.AverageRating != 4.5 || sum.TotalReviews != 2 {
		t.Fatalf("summary=%+v", sum)
	}

	if w = do(r, http.MethodDelete, "/reviews/"+second.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	mustDecode(t, do(r, http.MethodGet, "/stall/"+st.ID, ""), &got)
	if got.AverageRating != 4.0 || got.TotalReviews != 1 {
		t.Fatalf("rating=%v/%d, want 4.0/1", got.AverageRating, got.TotalReviews)
	}
}

func TestHealthz(t *testing.T) {
	_, r := newTestApp(t)
	w := do(r, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body map[string]any
	mustDecode(t, w, &body)
	if body["status"] != "ok" || body["relayClients"] != float64(0) {
		t.Fatalf("body=%s", w.Body.String())
	}
}

// A REST order reaches a websocket subscribed to the stall room.
func TestRESTOrderIsRelayedToStallSocket(t *testing.T) {
	a, r := newTestApp(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	stu := registerStudent(t, r, "Dev")
	st := registerStall(t, r, "Grill")

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?stall=" + st.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for a.hub.Len() < 1 {
		if time.Now().After(deadline) {
			t.Fatalf("socket never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	body := `{"studentId":"` + stu.ID + `","stallId":"` + st.ID + `","items":[{"item":"Burger","price":99.5}]}`
	if w := do(r, http.MethodPost, "/student/order", body); w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env relay.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	if env.Event != relay.EventNewOrder {
		t.Fatalf("event=%q", env.Event)
	}
	var no relay.NewOrder
	if err := json.Unmarshal(env.Data, &no); err != nil {
		t.Fatalf("data: %v", err)
	}
	if no.StallID != st.ID || !no.Order.Total.Equal(decimal.RequireFromString("99.5")) {
		t.Fatalf("newOrder=%+v", no)
	}
}

// Reusing another stall's order id over the socket is reported as not saved.
func TestSocketOrderWithForeignIDIsNotSaved(t *testing.T) {
	a, r := newTestApp(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	stu := registerStudent(t, r, "Ira")
	alpha := registerStall(t, r, "Alpha")
	beta := registerStall(t, r, "Beta")

	w := do(r, http.MethodPost, "/student/order",
		`{"studentId":"`+stu.ID+`","stallId":"`+alpha.ID+`","items":[{"item":"Tea","price":10}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var placed order.Order
	mustDecode(t, w, &placed)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?stall=" + beta.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for a.hub.Len() < 1 {
		if time.Now().After(deadline) {
			t.Fatalf("socket never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	frame := `{"event":"newOrder","idempotencyKey":"k-beta-1","data":{"stallID":"` + beta.ID +
		`","order":{"id":"` + placed.ID + `","items":[{"item":"Tea","price":10}]}}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}

	var env relay.Envelope
	for env.Event != relay.EventOrderNotSaved {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read: %v", err)
		}
		if env.Event == relay.EventOrderAck {
			t.Fatalf("acked as saved: %s", env.Data)
		}
	}
	var ns relay.OrderNotSaved
	if err := json.Unmarshal(env.Data, &ns); err != nil {
		t.Fatalf("data: %v", err)
	}
	if ns.Key != "k-beta-1" || ns.Reason == "" {
		t.Fatalf("orderNotSaved=%+v", ns)
	}

	w = do(r, http.MethodGet, "/stall/"+beta.ID+"/orders", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var list struct {
		Items []order.Order `json:"items"`
	}
	mustDecode(t, w, &list)
	if len(list.Items) != 0 {
		t.Fatalf("beta orders=%+v", list.Items)
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
	if err := httpx.RegisterValidators(); err != nil {
		panic(err)
	}
}
