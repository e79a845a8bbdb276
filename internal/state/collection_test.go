package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64
	Name string
}

func (i item) Key() int64 { return i.ID }

func loaded(t *testing.T, items ...item) *Collection[item] {
	t.Helper()
	var c Collection[item]
	tok := c.Begin()
	require.True(t, c.Resolve(tok, items))
	return &c
}

func TestCollection_LoadTransitions(t *testing.T) {
	var c Collection[item]
	assert.Equal(t, Phase(0), c.Snapshot().Phase)

	tok := c.Begin()
	assert.Equal(t, PhaseLoading, c.Snapshot().Phase)

	boom := errors.New("Failed to fetch assets")
	require.True(t, c.Fail(tok, boom))
	snap := c.Snapshot()
	assert.Equal(t, PhaseError, snap.Phase)
	assert.Equal(t, boom, snap.Err)

	// Retry re-enters Loading from Error.
	retry := c.Begin()
	assert.Equal(t, PhaseLoading, c.Snapshot().Phase)
	require.True(t, c.Resolve(retry, []item{{1, "a"}, {2, "b"}}))
	snap = c.Snapshot()
	assert.Equal(t, PhaseReady, snap.Phase)
	assert.NoError(t, snap.Err)
	assert.Equal(t, []item{{1, "a"}, {2, "b"}}, snap.Items)
}

func TestCollection_StaleLoadDiscarded(t *testing.T) {
	var c Collection[item]
	first := c.Begin()
	second := c.Begin()

	assert.False(t, c.Resolve(first, []item{{1, "old"}}))
	assert.False(t, c.Fail(first, errors.New("late")))
	assert.Equal(t, PhaseLoading, c.Snapshot().Phase)

	require.True(t, c.Resolve(second, []item{{2, "new"}}))
	assert.False(t, c.Resolve(second, []item{{3, "dup"}}), "a token resolves once")
	assert.Equal(t, []item{{2, "new"}}, c.Snapshot().Items)
}

func TestCollection_DeactivateDiscardsLateResults(t *testing.T) {
	c := loaded(t, item{1, "a"})
	load := c.Begin()
	mut, ok := c.StartMutation(GuardSubmit)
	require.True(t, ok)

	c.Deactivate()

	assert.False(t, c.Resolve(load, nil))
	assert.False(t, c.Insert(mut, item{9, "late"}))
	assert.False(t, c.Busy(GuardSubmit))
	assert.False(t, c.Settle(mut))
	assert.Equal(t, 1, c.Len())
}

func TestCollection_GuardRefusesDuplicateSubmissions(t *testing.T) {
	c := loaded(t)
	tok, ok := c.StartMutation(GuardSubmit)
	require.True(t, ok)

	_, ok = c.StartMutation(GuardSubmit)
	assert.False(t, ok)

	// A different kind is independent.
	del, ok := c.StartMutation(GuardDelete)
	require.True(t, ok)
	assert.True(t, c.Snapshot().Submitting)
	assert.True(t, c.Snapshot().Deleting)

	require.True(t, c.Settle(tok))
	require.True(t, c.Settle(del))
	assert.False(t, c.Settle(tok), "settling twice is a no-op")

	_, ok = c.StartMutation(GuardSubmit)
	assert.True(t, ok)
}

func TestCollection_InsertGrowsByExactlyOne(t *testing.T) {
	c := loaded(t, item{1, "a"}, item{2, "b"})
	tok, _ := c.StartMutation(GuardSubmit)

	require.True(t, c.Insert(tok, item{3, "c"}))
	assert.Equal(t, []item{{1, "a"}, {2, "b"}, {3, "c"}}, c.Snapshot().Items)

	// A duplicate key replaces instead of growing.
	require.True(t, c.Insert(tok, item{2, "b2"}))
	assert.Equal(t, []item{{1, "a"}, {2, "b2"}, {3, "c"}}, c.Snapshot().Items)
}

func TestCollection_PrependPutsNewestFirst(t *testing.T) {
	c := loaded(t, item{1, "a"})
	tok, _ := c.StartMutation(GuardSubmit)

	require.True(t, c.Prepend(tok, item{7, "new"}))
	assert.Equal(t, []item{{7, "new"}, {1, "a"}}, c.Snapshot().Items)
}

func TestCollection_ReplaceKeepsLength(t *testing.T) {
	c := loaded(t, item{1, "a"}, item{2, "b"})
	tok, _ := c.StartMutation(GuardSubmit)

	require.True(t, c.Replace(tok, item{2, "edited"}))
	assert.Equal(t, []item{{1, "a"}, {2, "edited"}}, c.Snapshot().Items)

	assert.False(t, c.Replace(tok, item{42, "ghost"}))
	assert.Equal(t, 2, c.Len())
}

func TestCollection_RemoveDropsExactlyOne(t *testing.T) {
	before := []item{{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}}
	c := loaded(t, before...)
	tok, _ := c.StartMutation(GuardDelete)

	require.True(t, c.Remove(tok, 2))
	assert.Equal(t, []item{{1, "a"}, {3, "c"}, {4, "d"}}, c.Snapshot().Items)
	assert.False(t, c.Remove(tok, 2))
	assert.Equal(t, 3, c.Len())

	// The caller's slice is not aliased.
	assert.Equal(t, item{2, "b"}, before[1])
}

func TestCollection_FailedMutationLeavesItemsUntouched(t *testing.T) {
	c := loaded(t, item{1, "a"})
	tok, _ := c.StartMutation(GuardSubmit)
	// The call failed: only Settle runs.
	require.True(t, c.Settle(tok))
	assert.Equal(t, []item{{1, "a"}}, c.Snapshot().Items)
	assert.False(t, c.Insert(tok, item{2, "b"}), "settled token cannot splice")
}

func TestCollection_SpliceRequiresLoadedList(t *testing.T) {
	var c Collection[item]
	c.Begin()
	tok, _ := c.StartMutation(GuardSubmit)
	assert.False(t, c.Insert(tok, item{1, "a"}))

	assert.False(t, c.Insert(Token{}, item{1, "a"}))
}

func TestCollection_VisibleIsDerived(t *testing.T) {
	c := loaded(t, item{1, "apple"}, item{2, "banana"}, item{3, "avocado"})
	c.SetSearch("a")

	got := c.Visible(func(i item) bool { return i.Name[0] == 'a' })
	assert.Equal(t, []item{{1, "apple"}, {3, "avocado"}}, got)
	assert.Len(t, c.Visible(nil), 3)

	snap := c.Snapshot()
	assert.Equal(t, "a", snap.Search)
	assert.Equal(t, "a", c.Search())
	assert.Equal(t, PhaseReady, snap.Phase)
}

func TestCollection_SnapshotIsIndependent(t *testing.T) {
	c := loaded(t, item{1, "a"})
	snap := c.Snapshot()
	snap.Items[0].Name = "mutated"

	found, ok := c.Find(1)
	require.True(t, ok)
	assert.Equal(t, "a", found.Name)
}

func TestPhaseAndGuardStrings(t *testing.T) {
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "ready", PhaseReady.String())
	assert.Equal(t, "error", PhaseError.String())
	assert.Equal(t, "submit", GuardSubmit.String())
	assert.Equal(t, "delete", GuardDelete.String())
}
