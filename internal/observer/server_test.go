package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hirosystems/stacks-devnet/internal/accounts"
	"github.com/hirosystems/stacks-devnet/internal/clarity"
	"github.com/hirosystems/stacks-devnet/internal/config"
	"github.com/hirosystems/stacks-devnet/internal/eventbus"
	"github.com/hirosystems/stacks-devnet/internal/stacksrpc"
	"github.com/hirosystems/stacks-devnet/internal/txcodec"
)

func newTestServer(t *testing.T, client *stacksrpc.FakeClient, cfg *config.Config) (*Server, eventbus.Producer, *eventbus.Bus) {
	t.Helper()
	bus := eventbus.NewBus()
	s := New(Config{
		Logger:        slog.Default(),
		Bus:           bus.Producer(),
		StacksClient:  client,
		Codec:         txcodec.NewNopCodec(),
		ClarityLoader: clarity.NewStaticLoader(&clarity.Session{}),
		DevnetConfig:  cfg,
	})
	return s, bus.Producer(), bus
}

func TestTakeNow_MatchesScenarioS2(t *testing.T) {
	remaining := 100
	var takes []int
	for remaining > 0 {
		n := takeNow(remaining)
		takes = append(takes, n)
		remaining -= n
	}
	assert.Equal(t, []int{20, 20, 20, 20, 20}, takes)
}

func TestTakeNow_PropertyTable(t *testing.T) {
	assert.Equal(t, 25, takeNow(25))
	assert.Equal(t, 13, takeNow(26))
	assert.Equal(t, 0, takeNow(0))
}

func TestHandleNewBlock_EmitsOneBlockSummaryMatchingTxCount(t *testing.T) {
	client := stacksrpc.NewFakeClient()
	s, _, bus := newTestServer(t, client, &config.Config{})

	body := newBlockBody{
		BlockHeight:     1,
		BurnBlockHeight: 1,
		Transactions: []txEnvelope{
			{TxID: "0x01", Status: "success", RawTx: "00"},
			{TxID: "0x02", Status: "success", RawTx: "00"},
		},
	}
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/new_block", bytes.NewReader(raw))
	w := httptest.NewRecorder()

	s.handleNewBlock(w, req)
	assert.Equal(t, 200, w.Code)

	var summary eventbus.BlockSummary
	var found bool
	for !found {
		select {
		case e := <-bus.Events():
			if bs, ok := e.(eventbus.BlockSummary); ok {
				summary = bs
				found = true
			}
		}
	}
	assert.Len(t, summary.Transactions, 2)
}

func TestSetDeployQueue_ResetsNonce(t *testing.T) {
	client := stacksrpc.NewFakeClient()
	s, _, _ := newTestServer(t, client, &config.Config{})

	s.mu.Lock()
	s.deployerNonce = 42
	s.mu.Unlock()

	s.SetDeployQueue([]QueueItem{{Contract: clarity.Contract{Name: "c"}, Deployer: accounts.Account{STXAddress: "ST1"}}})

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.Equal(t, uint64(0), s.deployerNonce)
	assert.Len(t, s.queue, 1)
}

func TestMaybeDeployContracts_AssignsMonotonicNonces(t *testing.T) {
	client := stacksrpc.NewFakeClient()
	s, _, _ := newTestServer(t, client, &config.Config{})

	items := make([]QueueItem, 30)
	for i := range items {
		items[i] = QueueItem{Contract: clarity.Contract{Name: "c"}, Deployer: accounts.Account{STXAddress: "ST1"}}
	}
	s.SetDeployQueue(items)

	s.maybeDeployContracts(context.Background())
	assert.Equal(t, 15, s.QueueLen())

	// The 15 popped contracts took nonces 0..14, so the next one is 15.
	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.Equal(t, uint64(15), s.deployerNonce)
}
