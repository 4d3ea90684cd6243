// Package pox holds the observer's mutable view of the running devnet's
// PoX (Proof of Transfer) parameters, refreshed from the Stacks node on
// a schedule and read by the stacking-order trigger (internal/observer).
package pox

import (
	"context"
	"sync"
	"time"

	"github.com/hirosystems/stacks-devnet/internal/stacksrpc"
)

// Info is the mutable record described in spec §3: fields default to
// the zero value of a fresh devnet and are refreshed from GET /v2/pox.
type Info struct {
	ContractID                string
	FirstBurnchainBlockHeight uint64
	PreparePhaseBlockLength   uint64
	RewardPhaseBlockLength    uint64
	MinThresholdUSTX          uint64
	TotalLiquidSupplyUSTX     uint64
}

// CycleLength is prepare_phase_block_length + reward_phase_block_length,
// the denominator of every cycle-boundary computation in spec §4.D.5.
func (i Info) CycleLength() uint64 {
	return i.PreparePhaseBlockLength + i.RewardPhaseBlockLength
}

// Tracker guards the current Info behind its own RWMutex, separate from
// the observer's deploy-queue lock, so observer code can compose it
// without entangling unrelated state.
type Tracker struct {
	mu   sync.RWMutex
	info Info
}

// NewTracker seeds a Tracker with defaults; a fresh devnet has no real
// PoX info until the first refresh succeeds.
func NewTracker(initial Info) *Tracker {
	return &Tracker{info: initial}
}

// Snapshot returns a copy of the current info for readers.
func (t *Tracker) Snapshot() Info {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.info
}

// Refresh fetches /v2/pox and replaces the tracked Info on success. On
// failure the previous Info is kept unchanged, per spec §4.D.5
// ("best-effort; keep previous on failure").
func (t *Tracker) Refresh(ctx context.Context, client stacksrpc.Client) error {
	fetched, err := client.PoxInfo(ctx)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.info = Info{
		ContractID:                fetched.ContractID,
		FirstBurnchainBlockHeight: fetched.FirstBurnchainBlockHeight,
		PreparePhaseBlockLength:   fetched.PreparePhaseBlockLength,
		RewardPhaseBlockLength:    fetched.RewardPhaseBlockLength,
		MinThresholdUSTX:          fetched.NextCycle.MinThresholdUSTX,
		TotalLiquidSupplyUSTX:     fetched.TotalLiquidSupplyUSTX,
	}
	return nil
}

// StartBackgroundRefresh implements spec §5's "background refresh
// goroutine updates under the same lock": it calls Refresh immediately
// (the stacks-node is typically not yet reachable at observer
// construction time, so the first few attempts are expected to fail and
// are reported through onErr rather than treated as fatal) and then on
// every tick, until ctx is cancelled. This is what actually seeds
// CycleLength() away from zero in a real run, rather than leaving the
// stacking-order trigger permanently gated shut.
func (t *Tracker) StartBackgroundRefresh(ctx context.Context, client stacksrpc.Client, interval time.Duration, onErr func(error)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if err := t.Refresh(ctx, client); err != nil && onErr != nil {
				onErr(err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
