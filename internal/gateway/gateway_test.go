package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/models"
	"shareit/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allowAll struct{}

func (allowAll) Allow(ctx context.Context, key string) (bool, error) { return true, nil }

type denyAll struct{}

func (denyAll) Allow(ctx context.Context, key string) (bool, error) { return false, nil }

func newTestGateway(t *testing.T, upstream string, limiterDenies bool) *httptest.Server {
	t.Helper()
	logger := zerolog.Nop()

	cfg := config.GatewayConfig{
		ServerURL: upstream,
		Retry:     config.RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}

	var g *Gateway
	if limiterDenies {
		g = New(cfg, denyAll{}, &logger)
	} else {
		g = New(cfg, allowAll{}, &logger)
	}

	ts := httptest.NewServer(g.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, userID string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set(api.IdentityHeader, userID)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestGatewayForwardsValidRequests(t *testing.T) {
	var gotRequestID atomic.Value
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID.Store(r.Header.Get("X-Request-Id"))
		assert.Equal(t, "7", r.Header.Get(api.IdentityHeader))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer upstream.Close()

	ts := newTestGateway(t, upstream.URL, false)

	start := time.Now().Add(24 * time.Hour)
	resp := postJSON(t, ts.URL+"/bookings", "7", models.BookingCreate{ItemID: 1, Start: start, End: start.Add(time.Hour)})
	defer resp.Body.Close()

	// Upstream status, headers and body come back verbatim.
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"id":1}`, string(body))

	// A request id was stamped on the upstream call.
	assert.NotEmpty(t, gotRequestID.Load())
}

func TestGatewayRejectsInvalidBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid request must not reach upstream")
	}))
	defer upstream.Close()

	ts := newTestGateway(t, upstream.URL, false)

	// end before start and missing itemId: both errors reported.
	start := time.Now().Add(24 * time.Hour)
	resp := postJSON(t, ts.URL+"/bookings", "7", models.BookingCreate{Start: start.Add(time.Hour), End: start})
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var envelope api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Len(t, envelope.Errors, 2)
	assert.Equal(t, http.StatusBadRequest, envelope.Status)
}

func TestGatewayRequiresIdentityHeader(t *testing.T) {
	ts := newTestGateway(t, "http://127.0.0.1:0", false)

	start := time.Now().Add(24 * time.Hour)
	resp := postJSON(t, ts.URL+"/bookings", "", models.BookingCreate{ItemID: 1, Start: start, End: start.Add(time.Hour)})
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var envelope api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Contains(t, envelope.Error, api.IdentityHeader)

	// Search is not anonymous either.
	searchReq, err := http.NewRequest(http.MethodGet, ts.URL+"/items/search?text=drill", nil)
	require.NoError(t, err)
	searchResp, err := http.DefaultClient.Do(searchReq)
	require.NoError(t, err)
	defer searchResp.Body.Close()

	require.Equal(t, http.StatusBadRequest, searchResp.StatusCode)
	envelope = api.ErrorResponse{}
	require.NoError(t, json.NewDecoder(searchResp.Body).Decode(&envelope))
	assert.Contains(t, envelope.Error, api.IdentityHeader)
}

func TestGatewayRateLimit(t *testing.T) {
	ts := newTestGateway(t, "http://127.0.0.1:0", true)

	resp := postJSON(t, ts.URL+"/users", "", models.UserCreate{Name: "A", Email: "a@example.com"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestGatewayRateLimitWithMemoryLimiter(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	logger := zerolog.Nop()
	limiter := repository.NewMemoryRateLimiter(1, time.Hour, 2)
	g := New(config.GatewayConfig{ServerURL: upstream.URL}, limiter, &logger)

	ts := httptest.NewServer(g.Handler())
	defer ts.Close()

	get := func() int {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/items", nil)
		req.Header.Set(api.IdentityHeader, "7")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, get())
	assert.Equal(t, http.StatusOK, get())
	assert.Equal(t, http.StatusTooManyRequests, get())
}

func TestGatewayRetriesIdempotentRequests(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// Drop the first connection to force a client error.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	ts := newTestGateway(t, upstream.URL, false)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/items", nil)
	req.Header.Set(api.IdentityHeader, "7")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestGatewayUpstreamDown(t *testing.T) {
	// Nothing listens on this address.
	ts := newTestGateway(t, "http://127.0.0.1:1", false)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/users", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var envelope api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Contains(t, envelope.Error, "upstream unavailable")
}
