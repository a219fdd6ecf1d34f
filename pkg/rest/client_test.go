package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/siphondata/siphon/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string, maxRetries int) *Client {
	return NewClient(Config{
		BaseURL:           serverURL,
		Headers:           map[string]string{"Authorization": "Klaviyo-API-Key test"},
		RequestsPerSecond: 1000,
		MaxRetries:        maxRetries,
		RetryBaseDelay:    time.Millisecond,
		RetryMaxDelay:     5 * time.Millisecond,
	})
}

func TestClient_FetchDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Klaviyo-API-Key test", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/events", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("page[size]"))
		w.Write([]byte(`{"data":[{"id":"ev_1"}],"links":{"next":""}}`))
	}))
	defer server.Close()

	var out struct {
		Data []map[string]any `json:"data"`
	}
	req := Request{Path: "/api/events"}
	req.QueryParams = map[string][]string{"page[size]": {"100"}}

	err := testClient(server.URL, 1).Fetch(context.Background(), req, &out)
	require.NoError(t, err)
	require.Equal(t, 1, len(out.Data))
	assert.Equal(t, "ev_1", out.Data[0]["id"])
}

func TestClient_RetriesThrottleThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	var out map[string]any
	err := testClient(server.URL, 3).Fetch(context.Background(), Request{Path: "/api/profiles"}, &out)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load(), "two throttles then success")
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var out map[string]any
	err := testClient(server.URL, 2).Fetch(context.Background(), Request{Path: "/api/lists"}, &out)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_AuthFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var out map[string]any
	err := testClient(server.URL, 5).Fetch(context.Background(), Request{Path: "/api/events"}, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrAuthFailed)
	assert.Equal(t, int32(1), calls.Load(), "credential rejection must abort immediately")
}

func TestClient_ExhaustedRetriesSurfaceLastError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var out map[string]any
	err := testClient(server.URL, 2).Fetch(context.Background(), Request{Path: "/api/events"}, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrTransient)
}

func TestClient_BadRequestIsNonRetryable(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	var out map[string]any
	err := testClient(server.URL, 5).Fetch(context.Background(), Request{Path: "/api/events"}, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrNonRetryable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestParseRetryAfterSeconds(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": []string{"7"}}}
	assert.Equal(t, 7*time.Second, parseRetryAfter(resp))

	resp = &http.Response{Header: http.Header{}}
	assert.Equal(t, time.Duration(0), parseRetryAfter(resp))
}
