package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func init() {
	gin.SetMode(gin.TestMode)
	log.SetOutput(io.Discard)
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{status.Error(codes.InvalidArgument, "x"), http.StatusBadRequest},
		{status.Error(codes.NotFound, "x"), http.StatusNotFound},
		{status.Error(codes.Unauthenticated, "x"), http.StatusUnauthorized},
		{status.Error(codes.FailedPrecondition, "x"), http.StatusConflict},
		{status.Error(codes.AlreadyExists, "x"), http.StatusConflict},
		{status.Error(codes.Unavailable, "x"), http.StatusServiceUnavailable},
		{status.Error(codes.Internal, "x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusCode(tc.err), tc.err.Error())
	}
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestWriteErrorRedactsInternal(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/boom", func(c *gin.Context) {
		WriteError(c, status.Error(codes.Internal, "mongo: connection string leaked"))
	})
	r.GET("/gone", func(c *gin.Context) {
		WriteError(c, status.Error(codes.NotFound, "order not found"))
	})

	w := serve(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", decode(t, w)["error"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(r, http.MethodGet, "/gone", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "order not found", decode(t, w)["error"])
}

func TestRecoveryReturns500(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("nil map") })

	w := serve(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", decode(t, w)["error"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RID(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestDomainValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	type body struct {
		Theme   string `json:"themePreference" binding:"required,theme"`
		Cuisine string `json:"cuisineType"     binding:"omitempty,cuisine"`
		Status  string `json:"status"          binding:"omitempty,orderstatus"`
	}
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var in body
		if err := c.ShouldBindJSON(&in); err != nil {
			BadRequest(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	cases := []struct {
		name  string
		body  string
		want  int
		field string
	}{
		{"ok", `{"themePreference":"dark","cuisineType":"Indian","status":"completed"}`, http.StatusNoContent, ""},
		{"bad theme", `{"themePreference":"blue"}`, http.StatusBadRequest, "themePreference"},
		{"bad cuisine", `{"themePreference":"light","cuisineType":"Thai"}`, http.StatusBadRequest, "cuisineType"},
		{"bad status", `{"themePreference":"light","status":"shipped"}`, http.StatusBadRequest, "status"},
		{"not json", `{`, http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, http.MethodPost, "/", tc.body)
			require.Equal(t, tc.want, w.Code, w.Body.String())
			if tc.field != "" {
				fields, _ := decode(t, w)["fields"].(map[string]any)
				assert.Contains(t, fields, tc.field)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/stall", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/stall", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
