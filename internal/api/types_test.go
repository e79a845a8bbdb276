package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAssetUpdate_NormalizeAssignmentPolicy(t *testing.T) {
	cases := []struct {
		name   string
		in     AssetUpdate
		status AssetStatus
	}{
		{"holder forces assigned", AssetUpdate{Status: AssetAvailable, AssignedTo: strPtr("Sam")}, AssetAssigned},
		{"cleared holder frees asset", AssetUpdate{Status: AssetAssigned, AssignedTo: strPtr("")}, AssetAvailable},
		{"cleared holder keeps maintenance", AssetUpdate{Status: AssetMaintenance, AssignedTo: strPtr("  ")}, AssetMaintenance},
		{"nil holder untouched", AssetUpdate{Status: AssetAssigned}, AssetAssigned},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.in.Normalize().Status)
		})
	}
}

func TestUpdateFrom_AlwaysSendsHolder(t *testing.T) {
	u := UpdateFrom(Asset{ID: 1, Name: "Dock", Category: CategoryDockingStation, Status: AssetAssigned, Site: "HQ"})
	require.NotNil(t, u.AssignedTo)
	assert.Equal(t, "", *u.AssignedTo)
	assert.Equal(t, AssetAvailable, u.Status)

	payload, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Dock","category":"Docking Station","site":"HQ","status":"Available","assignedTo":""}`, string(payload))
}

func TestEnums_RoundTripAndRejectUnknown(t *testing.T) {
	for _, c := range Categories() {
		parsed, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	assert.Len(t, RequestStatuses(), 4)

	var s RequestStatus
	assert.Error(t, json.Unmarshal([]byte(`"Escalated"`), &s))
	_, err := json.Marshal(Priority(0))
	assert.Error(t, err)
	_, err = ParseAssetStatus("available")
	assert.Error(t, err)
}

func TestRequestStatus_Terminal(t *testing.T) {
	assert.False(t, RequestPending.Terminal())
	assert.True(t, RequestApproved.Terminal())
	assert.True(t, RequestDenied.Terminal())
	assert.True(t, RequestCompleted.Terminal())
}

func TestStats_Utilization(t *testing.T) {
	assert.Equal(t, 0, Stats{}.Utilization())
	assert.Equal(t, 67, Stats{TotalAssets: 12, Assigned: 8}.Utilization())
	assert.Equal(t, 3, Stats{PendingRequests: 3}.RequestCount(RequestPending))
	assert.Equal(t, 2, Stats{Broken: 2}.AssetCount(AssetBroken))
}
