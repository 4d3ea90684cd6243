package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosystems/stacks-devnet/internal/config"
	"github.com/hirosystems/stacks-devnet/internal/stacksrpc"
)

// TestStackingTrigger_S4 matches spec scenario S4: cycle_length=5,
// first_burnchain_block_height=100, one order for start_at_cycle=1,
// fed a /new_block at burn_block_height=103 (103-100=3, 3 mod 5 == 3 ==
// cycle_length-2, cycle_id=0, so start_at_cycle==cycle_id+1==1 fires).
func TestStackingTrigger_S4(t *testing.T) {
	client := stacksrpc.NewFakeClient()
	client.Pox.ContractID = "ST000000000000000000002AMW42H.pox"
	client.Pox.FirstBurnchainBlockHeight = 100
	client.Pox.PreparePhaseBlockLength = 1
	client.Pox.RewardPhaseBlockLength = 4
	client.Pox.NextCycle.MinThresholdUSTX = 5000
	client.Accounts["ST1WALLET"] = stacksrpc.AccountInfo{Nonce: 7}

	cfg := &config.Config{
		Accounts: map[string]config.Account{
			"wallet_1": {STXAddress: "ST1WALLET", BTCAddress: "mqVnk6NPRdhntvfm4hh9vvjiRkFDUuSYsH"},
		},
		PoxStackingOrders: []config.StackingOrder{
			{StartAtCycle: 1, Duration: 2, WalletName: "wallet_1", Slots: 1, BTCAddress: "mqVnk6NPRdhntvfm4hh9vvjiRkFDUuSYsH"},
		},
	}

	s, _, _ := newTestServer(t, client, cfg)
	// Seed the tracker directly so the penultimate-block check has cycle
	// info before the first /v2/pox refresh.
	require.NoError(t, s.pox.Refresh(context.Background(), client))

	body := newBlockBody{BlockHeight: 3, BurnBlockHeight: 103}
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/new_block", bytes.NewReader(raw))
	w := httptest.NewRecorder()
	s.handleNewBlock(w, req)

	require.Eventually(t, func() bool { return len(client.Submitted) == 1 }, 1000_000_000, 1_000_000)
	assert.Len(t, client.Submitted, 1)
}

func TestStackingTrigger_DoesNotFireOffBoundary(t *testing.T) {
	client := stacksrpc.NewFakeClient()
	client.Pox.FirstBurnchainBlockHeight = 100
	client.Pox.PreparePhaseBlockLength = 1
	client.Pox.RewardPhaseBlockLength = 4

	cfg := &config.Config{
		PoxStackingOrders: []config.StackingOrder{
			{StartAtCycle: 1, Duration: 2, WalletName: "wallet_1", Slots: 1},
		},
	}
	s, _, _ := newTestServer(t, client, cfg)
	require.NoError(t, s.pox.Refresh(context.Background(), client))

	body := newBlockBody{BlockHeight: 2, BurnBlockHeight: 102}
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/new_block", bytes.NewReader(raw))
	w := httptest.NewRecorder()
	s.handleNewBlock(w, req)

	assert.Empty(t, client.Submitted)
}
