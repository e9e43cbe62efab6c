package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"vinfast/dashboard/internal/dashboard"
	"vinfast/dashboard/internal/handler"
	"vinfast/dashboard/internal/service/gateway"
	"vinfast/dashboard/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpstream struct {
	mu     sync.Mutex
	calls  map[string]int
	orders string
	status int
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls[r.URL.Path]++
	f.mu.Unlock()

	switch {
	case r.URL.Path == "/orders/orders":
		if f.status != 0 {
			w.WriteHeader(f.status)
			return
		}
		w.Write([]byte(f.orders))
	case r.URL.Path == "/users/users/2":
		w.Write([]byte(`{"id":2,"name":"Khách hàng Demo 1"}`))
	case r.URL.Path == "/catalog/catalog/cars/1":
		w.Write([]byte(`{"id":1,"model_name":"VinFast VF 9"}`))
	case r.URL.Path == "/users/users/login":
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 2, "role": "customer"}).
			SignedString([]byte("secret"))
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	case strings.HasPrefix(r.URL.Path, "/catalog/catalog/cars/"):
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeUpstream) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func setup(t *testing.T, upstream *fakeUpstream) *handler.Handler {
	t.Helper()
	upstream.calls = map[string]int{}
	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	log := zerolog.Nop()
	gw := gateway.NewClient(gateway.Config{URL: ts.URL}, log)
	sess := session.New(session.NewMemoryStore(), log)

	return handler.NewHandler(log,
		handler.NewDashboardHandler(gw, dashboard.Options{Concurrency: 1, GatewayURL: gw.BaseURL(), Logger: log}),
		handler.NewSessionHandler(sess, gw, log),
	)
}

func TestDashboardPage(t *testing.T) {
	upstream := &fakeUpstream{orders: `[{"order_id":1,"user_id":2,"status":"Confirmed","total_amount":3000000,
		"items":[{"car_model_id":1,"quantity":1,"unit_price":1500000},{"car_model_id":404,"quantity":1,"unit_price":1500000}]}]`}
	h := setup(t, upstream)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="orders-table-body"`)
	assert.Contains(t, body, `id="status-message"`)
	assert.Contains(t, body, "Khách hàng Demo 1")
	assert.Contains(t, body, "VinFast VF 9 (1 chiếc, 1.500.000 VND/chiếc)<br>Car ID 404 (Lỗi truy cập T2) (1 chiếc, 1.500.000 VND/chiếc)<br>")
	assert.Contains(t, body, "3.000.000 VND")
	assert.Contains(t, body, `<span class="status Confirmed">Confirmed</span>`)

	assert.Equal(t, 1, upstream.count("/orders/orders"))
	assert.Equal(t, 1, upstream.count("/users/users/2"))
	assert.Equal(t, 1, upstream.count("/catalog/catalog/cars/1"))
	assert.Equal(t, 1, upstream.count("/catalog/catalog/cars/404"))
}

func TestDashboardJSON_OrdersFailure(t *testing.T) {
	h := setup(t, &fakeUpstream{status: http.StatusInternalServerError})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var snap dashboard.Snapshot
	require.NoError(t, json.NewDecoder(w.Body).Decode(&snap))
	assert.Contains(t, snap.Status, "500")
	assert.Equal(t, "Đang tải dữ liệu...", snap.Message)
	assert.Empty(t, snap.Rows)
}

func TestDashboardJSON_Empty(t *testing.T) {
	upstream := &fakeUpstream{orders: `[]`}
	h := setup(t, upstream)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))

	var snap dashboard.Snapshot
	require.NoError(t, json.NewDecoder(w.Body).Decode(&snap))
	assert.Equal(t, "Chưa có đơn hàng nào được tạo thành công.", snap.Message)
	assert.Empty(t, snap.Rows)

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	assert.Equal(t, map[string]int{"/orders/orders": 1}, upstream.calls)
}

func TestHealthCheck(t *testing.T) {
	h := setup(t, &fakeUpstream{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestSessionFlow(t *testing.T) {
	h := setup(t, &fakeUpstream{})

	get := func() handler.SessionResponse {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/session", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp handler.SessionResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		return resp
	}

	assert.Equal(t, handler.SessionResponse{}, get())

	// Opaque tokens are stored without validation.
	body, _ := json.Marshal(handler.SaveTokenRequest{Token: "opaque"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/session/token", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handler.SessionResponse{Authenticated: true}, get())

	body, _ = json.Marshal(handler.LoginRequest{Email: "user1@test.com", Password: "password"})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/session/login", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handler.SessionResponse{Authenticated: true, UserID: "2"}, get())
}

func TestLogin_BadRequest(t *testing.T) {
	h := setup(t, &fakeUpstream{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/session/login", strings.NewReader(`{"email":""}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/session/token", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
