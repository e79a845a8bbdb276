package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testSession = "4f1c2a8e-9b6d-4e43-8a57-2d0f3c6b9e11"

func newTestClient(t *testing.T, handler http.Handler, timeout time.Duration) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(Options{
		BaseURL:    server.URL,
		SessionID:  testSession,
		Timeout:    timeout,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "127.0.0.1:8787", u.Host)

	u, err = parseBaseURL("localhost:9000/root/?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/root", u.String())

	_, err = parseBaseURL("http://")
	assert.Error(t, err)
}

func TestNewClient_RequiresSessionID(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	c, err := NewClient(Options{SessionID: testSession})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.Timeout())
	assert.Equal(t, 30*time.Second, c.Timeout())
}

func TestFilter_OmitsAllAndEmpty(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"zero", Filter{}, ""},
		{"all sentinel", Filter{Status: FilterAll}, ""},
		{"all with user", Filter{Status: FilterAll, User: "Jordan Lee"}, "user=Jordan+Lee"},
		{"status only", Filter{Status: "Pending"}, "status=Pending"},
		{"both", Filter{Status: "Assigned", User: "Sam"}, "status=Assigned&user=Sam"},
		{"blank status", Filter{Status: "  "}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.values().Encode())
		})
	}
}

func TestClient_ListAssetsSendsSessionHeadersAndQuery(t *testing.T) {
	var (
		mu      sync.Mutex
		headers http.Header
		query   url.Values
	)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		headers = r.Header.Clone()
		query = r.URL.Query()
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":2,"tag":"EQ-MON-001","name":"Dell 27","category":"Monitor","status":"Available","site":"HQ","assignedTo":null,"purchaseDate":"2024-01-10"},
			{"id":1,"tag":"EQ-LAP-001","name":"MacBook Pro","category":"Laptop","status":"Assigned","site":"HQ","assignedTo":"Jordan Lee","purchaseDate":"2023-06-01"}
		]`)
	})
	c := newTestClient(t, handler, time.Second)

	assets, err := c.ListAssets(context.Background(), Filter{Status: FilterAll, User: "Jordan Lee"})
	require.NoError(t, err)
	require.Len(t, assets, 2)

	// Server order is preserved.
	assert.Equal(t, int64(2), assets[0].ID)
	assert.Equal(t, CategoryMonitor, assets[0].Category)
	assert.Equal(t, "", assets[0].Holder())
	assert.Equal(t, AssetAssigned, assets[1].Status)
	assert.Equal(t, "Jordan Lee", assets[1].Holder())
	assert.Equal(t, 2023, assets[1].ParsedPurchaseDate().Year())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, testSession, headers.Get("X-Session-ID"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "equip/0.1", headers.Get("User-Agent"))
	assert.False(t, query.Has("status"))
	assert.Equal(t, "Jordan Lee", query.Get("user"))
}

func TestClient_MutationsUseExpectedMethodsAndBodies(t *testing.T) {
	type call struct {
		method string
		path   string
		body   map[string]any
	}
	var (
		mu    sync.Mutex
		calls []call
	)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		mu.Lock()
		calls = append(calls, call{r.Method, r.URL.Path, body})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/api/requests/9":
			_, _ = io.WriteString(w, `{"id":9,"type":"Repair","asset":null,"description":"x","priority":"High","status":"Approved","user":"Sam","createdAt":"2024-02-01"}`)
		case r.URL.Path == "/api/requests":
			_, _ = io.WriteString(w, `{"id":10,"type":"Repair","asset":null,"description":"Screen flickering","priority":"High","status":"Pending","user":"Jordan Lee","createdAt":"2024-03-01"}`)
		default:
			_, _ = io.WriteString(w, `{"id":5,"tag":"EQ-LAP-004","name":"ThinkPad","category":"Laptop","status":"Available","site":"HQ","assignedTo":null,"purchaseDate":"2024-03-01"}`)
		}
	})
	c := newTestClient(t, handler, time.Second)
	ctx := context.Background()

	_, err := c.CreateAsset(ctx, AssetInput{Name: "ThinkPad", Category: CategoryLaptop, Site: "HQ"})
	require.NoError(t, err)

	holder := ""
	updated, err := c.UpdateAsset(ctx, 5, AssetUpdate{Name: "ThinkPad", Status: AssetAssigned, AssignedTo: &holder}.Normalize())
	require.NoError(t, err)
	assert.Equal(t, AssetAvailable, updated.Status)

	require.NoError(t, c.DeleteAsset(ctx, 5))

	created, err := c.CreateRequest(ctx, RequestInput{
		Type:        RequestRepair,
		Description: "Screen flickering",
		Priority:    PriorityHigh,
		User:        "Jordan Lee",
	})
	require.NoError(t, err)
	assert.Equal(t, RequestPending, created.Status)
	assert.Equal(t, "", created.AssetName())

	approved, err := c.UpdateRequestStatus(ctx, 9, RequestApproved)
	require.NoError(t, err)
	assert.Equal(t, RequestApproved, approved.Status)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 5)

	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, "/api/assets", calls[0].path)
	assert.Equal(t, "Laptop", calls[0].body["category"])
	assert.NotContains(t, calls[0].body, "notes")

	assert.Equal(t, http.MethodPut, calls[1].method)
	assert.Equal(t, "/api/assets/5", calls[1].path)
	assert.Equal(t, "", calls[1].body["assignedTo"])
	assert.Equal(t, "Available", calls[1].body["status"])

	assert.Equal(t, http.MethodDelete, calls[2].method)
	assert.Equal(t, "/api/assets/5", calls[2].path)

	assert.Equal(t, http.MethodPost, calls[3].method)
	assert.Equal(t, "Repair", calls[3].body["type"])
	assert.Equal(t, "High", calls[3].body["priority"])

	assert.Equal(t, http.MethodPatch, calls[4].method)
	assert.Equal(t, "/api/requests/9", calls[4].path)
	assert.Equal(t, map[string]any{"status": "Approved"}, calls[4].body)
}

func TestClient_StatusErrorUsesOperationMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	c := newTestClient(t, handler, time.Second)

	_, err := c.ListAssets(context.Background(), Filter{})
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch assets", err.Error())
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, OpFetchAssets, opErr.Op)
	assert.Contains(t, opErr.Detail(), "returned status 500")

	err = c.DeleteAsset(context.Background(), 3)
	assert.EqualError(t, err, "Failed to delete asset")

	_, err = c.FetchStats(context.Background())
	assert.EqualError(t, err, "Failed to fetch stats")
}

func TestClient_DecodeErrors(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/stats":
			_, _ = io.WriteString(w, "{not-json")
		case "/api/requests":
			_, _ = io.WriteString(w, `[{"id":1,"type":"Repair","priority":"Urgent","status":"Pending"}]`)
		default:
			http.NotFound(w, r)
		}
	})
	c := newTestClient(t, handler, time.Second)

	_, err := c.FetchStats(context.Background())
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr), "err = %v", err)

	// Unknown enum values never reach callers.
	_, err = c.ListRequests(context.Background(), Filter{})
	assert.True(t, errors.As(err, &decodeErr), "err = %v", err)
	assert.EqualError(t, err, "Failed to fetch requests")
}

func TestClient_TimeoutAbortsCall(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	c := newTestClient(t, handler, 50*time.Millisecond)

	start := time.Now()
	_, err := c.ListAssets(context.Background(), Filter{})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, IsTimeout(err))
	assert.Equal(t, TimeoutMessage, err.Error())
	assert.Equal(t, "Request timed out - please try again", err.Error())
}

func TestClient_CallerCancelIsNotTimeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	c := newTestClient(t, handler, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := c.FetchStats(ctx)
	require.Error(t, err)
	assert.False(t, IsTimeout(err))
	assert.True(t, errors.Is(err, context.Canceled))
	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	c, err := NewClient(Options{BaseURL: base, SessionID: testSession, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Health(context.Background())
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "err = %v", err)
	assert.EqualError(t, err, "Health check failed")
}
