package mockapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/equip/internal/api"
	"github.com/five82/equip/internal/session"
	"github.com/five82/equip/internal/state"
)

var fixedNow = func() time.Time { return time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC) }

func newClient(t *testing.T, opts Options, sessionID string, timeout time.Duration) (*api.Client, *Server) {
	t.Helper()
	if opts.Now == nil {
		opts.Now = fixedNow
	}
	srv := New(opts)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	c, err := api.NewClient(api.Options{
		BaseURL:    ts.URL,
		SessionID:  sessionID,
		Timeout:    timeout,
		HTTPClient: ts.Client(),
	})
	require.NoError(t, err)
	return c, srv
}

func TestListAssets_FullInventoryInServerOrder(t *testing.T) {
	c, _ := newClient(t, Options{}, "session-a", time.Second)

	assets, err := c.ListAssets(context.Background(), api.Filter{Status: api.FilterAll})
	require.NoError(t, err)
	require.Len(t, assets, len(seedAssets))
	for i, a := range assets {
		assert.Equal(t, int64(i+1), a.ID)
		assert.Equal(t, seedAssets[i].tag, a.Tag)
	}

	assigned, err := c.ListAssets(context.Background(), api.Filter{User: "Sam Rivera"})
	require.NoError(t, err)
	assert.Len(t, assigned, 4)
}

func TestCreateRequest_ReturnsPendingWithServerFields(t *testing.T) {
	c, _ := newClient(t, Options{}, "session-a", time.Second)

	created, err := c.CreateRequest(context.Background(), api.RequestInput{
		Type:        api.RequestRepair,
		Priority:    api.PriorityHigh,
		Description: "Screen flickering",
		User:        "Jordan Lee",
	})
	require.NoError(t, err)
	assert.Equal(t, api.RequestPending, created.Status)
	assert.Equal(t, int64(len(seedRequests)+1), created.ID)
	assert.Equal(t, "2025-02-03", created.CreatedAt)
	assert.Nil(t, created.Asset)
}

func TestUpdateRequestStatus_MovesBetweenFilteredLists(t *testing.T) {
	c, _ := newClient(t, Options{}, "session-a", time.Second)
	ctx := context.Background()

	pending, err := c.ListRequests(ctx, api.Filter{Status: "Pending"})
	require.NoError(t, err)
	require.NotEmpty(t, pending)
	target := pending[0].ID

	_, err = c.UpdateRequestStatus(ctx, target, api.RequestApproved)
	require.NoError(t, err)

	pending, err = c.ListRequests(ctx, api.Filter{Status: "Pending"})
	require.NoError(t, err)
	approved, err := c.ListRequests(ctx, api.Filter{Status: "Approved"})
	require.NoError(t, err)

	assert.NotContains(t, ids(pending), target)
	assert.Contains(t, ids(approved), target)
}

func TestUpdateAsset_UnassignMakesAvailable(t *testing.T) {
	c, _ := newClient(t, Options{}, "session-a", time.Second)
	ctx := context.Background()

	empty := ""
	updated, err := c.UpdateAsset(ctx, 1, api.AssetUpdate{Status: api.AssetAssigned, AssignedTo: &empty})
	require.NoError(t, err)
	assert.Equal(t, api.AssetAvailable, updated.Status)
	assert.Nil(t, updated.AssignedTo)

	// The service enforces the policy even if the client did not normalize.
	holder := "Taylor Kim"
	updated, err = c.UpdateAsset(ctx, 2, api.AssetUpdate{Status: api.AssetAvailable, AssignedTo: &holder})
	require.NoError(t, err)
	assert.Equal(t, api.AssetAssigned, updated.Status)
	assert.Equal(t, "Taylor Kim", updated.Holder())
}

func TestCreateAsset_GeneratesTagAndDefaults(t *testing.T) {
	c, _ := newClient(t, Options{}, "session-a", time.Second)

	created, err := c.CreateAsset(context.Background(), api.AssetInput{Name: "Dell Latitude 7440", Category: api.CategoryLaptop, Site: "HQ"})
	require.NoError(t, err)
	assert.Equal(t, "EQ-LAP-006", created.Tag)
	assert.Equal(t, api.AssetAvailable, created.Status)
	assert.Equal(t, "2025-02-03", created.PurchaseDate)

	other, err := c.CreateAsset(context.Background(), api.AssetInput{Name: "Webcam", Category: api.CategoryOther, Site: "Remote"})
	require.NoError(t, err)
	assert.Equal(t, "EQ-OTH-001", other.Tag)

	_, err = c.CreateAsset(context.Background(), api.AssetInput{Name: " ", Category: api.CategoryOther})
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))
}

func TestDeleteAsset_RemovesExactlyOne(t *testing.T) {
	c, _ := newClient(t, Options{}, "session-a", time.Second)
	ctx := context.Background()

	require.NoError(t, c.DeleteAsset(ctx, 3))
	assets, err := c.ListAssets(ctx, api.Filter{})
	require.NoError(t, err)
	assert.Len(t, assets, len(seedAssets)-1)
	assert.NotContains(t, assetIDs(assets), int64(3))

	err = c.DeleteAsset(ctx, 3)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	assert.EqualError(t, err, "Failed to delete asset")
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := New(Options{Now: fixedNow})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	clientFor := func(id string) *api.Client {
		c, err := api.NewClient(api.Options{BaseURL: ts.URL, SessionID: id, HTTPClient: ts.Client()})
		require.NoError(t, err)
		return c
	}
	a, b := clientFor("a"), clientFor("b")
	ctx := context.Background()

	require.NoError(t, a.DeleteAsset(ctx, 1))
	statsA, err := a.FetchStats(ctx)
	require.NoError(t, err)
	statsB, err := b.FetchStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, len(seedAssets)-1, statsA.TotalAssets)
	assert.Equal(t, len(seedAssets), statsB.TotalAssets)
	assert.Equal(t, 2, srv.Store.Sessions())
}

func TestStats_CountsByStatus(t *testing.T) {
	c, _ := newClient(t, Options{}, "session-a", time.Second)

	st, err := c.FetchStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.Stats{
		TotalAssets:       12,
		Assigned:          6,
		Available:         4,
		Maintenance:       1,
		Broken:            1,
		PendingRequests:   2,
		ApprovedRequests:  1,
		DeniedRequests:    1,
		CompletedRequests: 1,
	}, st)
}

func TestMissingSessionHeaderRejected(t *testing.T) {
	ts := httptest.NewServer(New(Options{}))
	t.Cleanup(ts.Close)

	resp, err := ts.Client().Get(ts.URL + "/api/assets")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	health, err := ts.Client().Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestInvalidEnumRejected(t *testing.T) {
	ts := httptest.NewServer(New(Options{}))
	t.Cleanup(ts.Close)

	req, err := http.NewRequest(http.MethodPatch, ts.URL+"/api/requests/1", strings.NewReader(`{"status":"Escalated"}`))
	require.NoError(t, err)
	req.Header.Set(session.HeaderName, "s")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTimedOutListSurfacesTimeoutMessage(t *testing.T) {
	c, _ := newClient(t, Options{Latency: 500 * time.Millisecond}, "session-a", 30*time.Millisecond)

	var assets state.Collection[api.Asset]
	tok := assets.Begin()
	list, err := c.ListAssets(context.Background(), api.Filter{})
	if err != nil {
		assets.Fail(tok, err)
	} else {
		assets.Resolve(tok, list)
	}

	snap := assets.Snapshot()
	require.Equal(t, state.PhaseError, snap.Phase)
	assert.Equal(t, "Request timed out - please try again", snap.Err.Error())
}

func TestMetricsEndpoint(t *testing.T) {
	srv := New(Options{Metrics: true, Now: fixedNow})

	list := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	list.Header.Set(session.HeaderName, "session-a")
	srv.ServeHTTP(httptest.NewRecorder(), list)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `equip_http_requests_total{method="GET",path="/api/assets",status="OK"} 1`)
	assert.Contains(t, string(body), "equip_sessions 1")
}

func ids(reqs []api.Request) []int64 {
	out := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.ID)
	}
	return out
}

func assetIDs(assets []api.Asset) []int64 {
	out := make([]int64, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.ID)
	}
	return out
}
