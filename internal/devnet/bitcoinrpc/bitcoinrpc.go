// Package bitcoinrpc wraps a regtest bitcoind JSON-RPC endpoint for the
// devnet's wallet-seeding protocol: wait for the node, create a wallet,
// import the miner's watch-only address, and mine the 101 blocks needed
// to mature the miner's first coinbase reward. No example in the
// retrieval pack talks to bitcoind directly, so btcsuite/btcd/rpcclient
// is named here (same vendor family as the module's other btcsuite
// dependencies) rather than grounded in a specific pack file.
package bitcoinrpc

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
)

// Client is the capability surface the orchestrator's wallet-seeding
// step needs; a thin interface lets tests substitute a fake instead of
// standing up a real regtest node.
type Client interface {
	WaitForNetwork(ctx context.Context) error
	CreateWallet(ctx context.Context, name string) error
	ImportAddress(ctx context.Context, address string) error
	GenerateToAddress(ctx context.Context, n int64, address string) error
	Close()
}

type client struct {
	rpc *rpcclient.Client
}

// Dial connects to bitcoind's RPC endpoint over HTTP POST (regtest never
// needs the websocket notification transport the orchestrator would
// otherwise use).
func Dial(host, user, pass string) (Client, error) {
	cfg := &rpcclient.ConnConfig{
		Host:         host,
		User:         user,
		Pass:         pass,
		HTTPPostMode: true,
		DisableTLS:   true,
	}
	rc, err := rpcclient.New(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("bitcoinrpc: dial %s: %w", host, err)
	}
	return &client{rpc: rc}, nil
}

// WaitForNetwork polls getnetworkinfo until bitcoind answers or ctx
// expires, per spec §4.C's "wait for node readiness" boot step.
func (c *client) WaitForNetwork(ctx context.Context) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		if _, err := c.rpc.GetNetworkInfo(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("bitcoinrpc: wait for network: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *client) CreateWallet(ctx context.Context, name string) error {
	if _, err := c.rpc.CreateWallet(name); err != nil {
		return fmt.Errorf("bitcoinrpc: create wallet %s: %w", name, err)
	}
	return nil
}

func (c *client) ImportAddress(ctx context.Context, address string) error {
	if err := c.rpc.ImportAddressRescan(address, "", false); err != nil {
		return fmt.Errorf("bitcoinrpc: import address %s: %w", address, err)
	}
	return nil
}

func (c *client) GenerateToAddress(ctx context.Context, n int64, address string) error {
	decoded, err := decodeAddress(address)
	if err != nil {
		return fmt.Errorf("bitcoinrpc: generate to address: %w", err)
	}
	if _, err := c.rpc.GenerateToAddress(n, decoded, nil); err != nil {
		return fmt.Errorf("bitcoinrpc: generate %d blocks: %w", n, err)
	}
	return nil
}

func (c *client) Close() { c.rpc.Shutdown() }

// SeedWallet runs the devnet's full wallet-seeding protocol: create the
// wallet, then mine 101 blocks split 3 (miner) + 97 (faucet) + 1 (miner)
// so the miner's first coinbase matures past the maturity horizon while
// the faucet ends up holding most of the spendable supply. minerAddress
// and faucetAddress are imported as watch-only before mining starts.
func SeedWallet(ctx context.Context, c Client, walletName, minerAddress, faucetAddress string) error {
	if err := c.WaitForNetwork(ctx); err != nil {
		return err
	}
	if err := c.CreateWallet(ctx, walletName); err != nil {
		return err
	}
	if err := c.ImportAddress(ctx, minerAddress); err != nil {
		return err
	}
	if err := c.ImportAddress(ctx, faucetAddress); err != nil {
		return err
	}

	batches := []struct {
		n    int64
		addr string
	}{
		{3, minerAddress},
		{97, faucetAddress},
		{1, minerAddress},
	}
	for _, batch := range batches {
		if err := c.GenerateToAddress(ctx, batch.n, batch.addr); err != nil {
			return fmt.Errorf("seed wallet: %w", err)
		}
	}
	return nil
}
