package observer

import (
	"github.com/hirosystems/stacks-devnet/internal/accounts"
	"github.com/hirosystems/stacks-devnet/internal/clarity"
)

// QueueItem pairs a contract awaiting deployment with the account that
// will sign its publish transaction. The orchestrator builds the
// initial queue from the loaded Clarity session and hands it to the
// observer before the stacks-node container boots (spec §4.C).
type QueueItem struct {
	Contract clarity.Contract
	Deployer accounts.Account
}

// chainLimit is the fixed per-block contract-publish ceiling the
// pacing formula in spec §4.D divides by.
const chainLimit = 25

// takeNow computes how many contracts to pop from a queue of length
// remaining this block, per spec §4.D.3 / testable property 5.
func takeNow(remaining int) int {
	if remaining == 0 {
		return 0
	}
	blocksRequired := 1 + remaining/chainLimit
	if blocksRequired == 1 {
		return remaining
	}
	return remaining / blocksRequired
}
