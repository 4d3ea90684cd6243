package devnet

import (
	"log/slog"
	"sort"

	"github.com/hirosystems/stacks-devnet/internal/accounts"
	"github.com/hirosystems/stacks-devnet/internal/config"
)

// AccountsFromConfig builds the orchestrator's pre-funded account set
// from the manifest's accounts table. An entry that already carries
// stx_address/btc_address is used as-is, matching original_source's
// orchestrator (which reads those fields off each entry directly
// rather than re-deriving keys at startup). An entry that gives only a
// mnemonic + derivation path — the identity shape spec §3 also
// describes — is derived through accounts.DeriveAccount, the same way
// original_source's clarity-repl wallet bootstrap fills in addresses
// for mnemonic-only accounts. Derivation failure is logged and falls
// back to the (blank) manifest fields rather than aborting startup, so
// a malformed single account doesn't take down the whole devnet.
// Account names come from the map keys, so deploy-queue resolution
// (BuildDeployQueue) and stacking-order wallet lookups both key off the
// same logical names the manifest uses ("deployer", "wallet_1", ...).
// Results are sorted by name so generated artifacts (Stacks.toml's
// ustx_balance entries) are deterministic across runs of the same
// manifest.
func AccountsFromConfig(cfg *config.Config, logger *slog.Logger) []accounts.Account {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]accounts.Account, 0, len(cfg.Accounts))
	for name, a := range cfg.Accounts {
		acct := accounts.Account{
			Name:        name,
			Mnemonic:    a.Mnemonic,
			Derivation:  a.Derivation,
			BalanceUSTX: a.Balance,
			STXAddress:  a.STXAddress,
			BTCAddress:  a.BTCAddress,
			IsMainnet:   a.IsMainnet,
		}
		if (a.STXAddress == "" || a.BTCAddress == "") && a.Mnemonic != "" {
			derived, err := accounts.DeriveAccount(name, a.Mnemonic, a.Derivation, a.Balance, a.IsMainnet)
			if err != nil {
				logger.Warn("account derivation failed, using manifest fields as-is", "account", name, "err", err)
			} else {
				acct = derived
			}
		}
		out = append(out, acct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
