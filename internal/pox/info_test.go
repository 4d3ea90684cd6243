package pox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosystems/stacks-devnet/internal/stacksrpc"
)

func TestInfo_CycleLength(t *testing.T) {
	i := Info{PreparePhaseBlockLength: 1, RewardPhaseBlockLength: 4}
	assert.Equal(t, uint64(5), i.CycleLength())
}

func TestTracker_RefreshReplacesInfoOnSuccess(t *testing.T) {
	tr := NewTracker(Info{})
	client := stacksrpc.NewFakeClient()
	client.Pox.ContractID = "ST000000000000000000002AMW42H.pox"
	client.Pox.PreparePhaseBlockLength = 1
	client.Pox.RewardPhaseBlockLength = 4
	client.Pox.NextCycle.MinThresholdUSTX = 5000

	err := tr.Refresh(context.Background(), client)
	require.NoError(t, err)

	got := tr.Snapshot()
	assert.Equal(t, "ST000000000000000000002AMW42H.pox", got.ContractID)
	assert.Equal(t, uint64(5000), got.MinThresholdUSTX)
}

func TestTracker_RefreshKeepsPreviousOnFailure(t *testing.T) {
	tr := NewTracker(Info{ContractID: "stale"})
	client := stacksrpc.NewFakeClient()
	client.Err = assert.AnError

	err := tr.Refresh(context.Background(), client)
	assert.Error(t, err)
	assert.Equal(t, "stale", tr.Snapshot().ContractID)
}
