// Package stacksrpc is a small typed client for a Stacks node's v2 HTTP
// RPC surface, grounded on opstack/eth_client.go's shape: an interface,
// a real net/http-backed implementation, and a factory, so the observer
// and orchestrator can substitute a fake in tests.
package stacksrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PoxInfo mirrors the fields of GET /v2/pox the observer and its
// stacking trigger need.
type PoxInfo struct {
	ContractID                string `json:"contract_id"`
	FirstBurnchainBlockHeight uint64 `json:"first_burnchain_block_height"`
	PreparePhaseBlockLength   uint64 `json:"prepare_phase_block_length"`
	RewardPhaseBlockLength    uint64 `json:"reward_phase_block_length"`
	CurrentBurnchainHeight    uint64 `json:"current_burnchain_block_height"`
	NextCycle                 struct {
		MinThresholdUSTX uint64 `json:"min_threshold_ustx"`
	} `json:"next_cycle"`
	TotalLiquidSupplyUSTX uint64 `json:"total_liquid_supply_ustx"`
}

// AccountInfo mirrors the fields of GET /v2/accounts/{principal} the
// observer needs to determine the next nonce for a stacking order's
// wallet account.
type AccountInfo struct {
	Balance string `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

// Client is the capability surface the observer and orchestrator depend
// on. Every method is ctx-bound; a real implementation talks to a node
// over HTTP, a fake substitutes canned responses in tests.
type Client interface {
	PoxInfo(ctx context.Context) (PoxInfo, error)
	AccountInfo(ctx context.Context, principal string) (AccountInfo, error)
	SubmitTransaction(ctx context.Context, raw []byte) (txid string, err error)
}

// httpClient is the production Client, backed by net/http against a
// single Stacks node's RPC base URL.
type httpClient struct {
	baseURL string
	hc      *http.Client
}

// Factory creates Clients bound to a node's RPC base URL, mirroring
// EthClientFactory.Dial's shape.
type Factory struct{}

// NewFactory builds a Factory.
func NewFactory() *Factory { return &Factory{} }

// Dial builds a Client for the node reachable at baseURL, e.g.
// "http://localhost:20443".
func (f *Factory) Dial(baseURL string) Client {
	return &httpClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *httpClient) PoxInfo(ctx context.Context) (PoxInfo, error) {
	var out PoxInfo
	if err := c.getJSON(ctx, "/v2/pox", &out); err != nil {
		return PoxInfo{}, fmt.Errorf("stacksrpc: pox info: %w", err)
	}
	return out, nil
}

func (c *httpClient) AccountInfo(ctx context.Context, principal string) (AccountInfo, error) {
	var out AccountInfo
	path := fmt.Sprintf("/v2/accounts/%s?proof=0", principal)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return AccountInfo{}, fmt.Errorf("stacksrpc: account info for %s: %w", principal, err)
	}
	return out, nil
}

func (c *httpClient) SubmitTransaction(ctx context.Context, raw []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transactions", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("stacksrpc: submit transaction: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("stacksrpc: submit transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stacksrpc: submit transaction: node returned %d", resp.StatusCode)
	}

	var txid string
	if err := json.NewDecoder(resp.Body).Decode(&txid); err != nil {
		return "", fmt.Errorf("stacksrpc: submit transaction: decode response: %w", err)
	}
	return txid, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node returned %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ Client = (*httpClient)(nil)
