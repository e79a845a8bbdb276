package state

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/five82/equip/internal/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type counts struct{ Pending, Approved int }

func TestValue_LoadAndAdjust(t *testing.T) {
	var v Value[counts]
	assert.False(t, v.Adjust(func(c *counts) { c.Pending++ }))

	stale := v.Begin()
	tok := v.Begin()
	assert.False(t, v.Resolve(stale, counts{Pending: 99}))
	require.True(t, v.Resolve(tok, counts{Pending: 2}))

	require.True(t, v.Adjust(func(c *counts) {
		c.Pending--
		c.Approved++
	}))
	got, phase, err := v.Get()
	assert.Equal(t, counts{Pending: 1, Approved: 1}, got)
	assert.Equal(t, PhaseReady, phase)
	assert.NoError(t, err)

	v.Deactivate()
	next := v.Begin()
	require.True(t, v.Fail(next, errors.New("down")))
	_, phase, err = v.Get()
	assert.Equal(t, PhaseError, phase)
	assert.EqualError(t, err, "down")
}

func TestGather_FailsWholeTransition(t *testing.T) {
	var ran atomic.Int32
	err := Gather(context.Background(),
		func(context.Context) error {
			ran.Add(1)
			return nil
		},
		func(context.Context) error {
			ran.Add(1)
			return errors.New("Failed to fetch stats")
		},
		func(ctx context.Context) error {
			ran.Add(1)
			<-ctx.Done()
			return ctx.Err()
		},
	)
	assert.EqualError(t, err, "Failed to fetch stats")
	assert.Equal(t, int32(3), ran.Load())

	assert.NoError(t, Gather(context.Background()))
}

func TestTimedOutLoadSettlesIntoError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client, err := api.NewClient(api.Options{
		BaseURL:    server.URL,
		SessionID:  "7d444840-9dc0-11d1-b245-5ffdce74fad2",
		Timeout:    40 * time.Millisecond,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)

	var assets Collection[api.Asset]
	tok := assets.Begin()
	_, err = client.ListAssets(context.Background(), api.Filter{})
	require.Error(t, err)
	require.True(t, assets.Fail(tok, err))

	snap := assets.Snapshot()
	assert.Equal(t, PhaseError, snap.Phase)
	assert.Equal(t, "Request timed out - please try again", snap.Err.Error())

	// The submission guard is released after a timed-out mutation.
	ready := assets.Begin()
	require.True(t, assets.Resolve(ready, nil))
	mut, ok := assets.StartMutation(GuardSubmit)
	require.True(t, ok)
	_, err = client.CreateAsset(context.Background(), api.AssetInput{Name: "x", Category: api.CategoryOther, Site: "HQ"})
	require.True(t, api.IsTimeout(err))
	assert.True(t, assets.Settle(mut))
	assert.False(t, assets.Snapshot().Submitting)
}
