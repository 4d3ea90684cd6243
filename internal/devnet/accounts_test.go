package devnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosystems/stacks-devnet/internal/config"
)

func TestAccountsFromConfig_SortedByName(t *testing.T) {
	cfg := &config.Config{
		Accounts: map[string]config.Account{
			"wallet_1": {STXAddress: "ST2", BTCAddress: "b2", Balance: 100},
			"deployer": {STXAddress: "ST1", BTCAddress: "b1", Balance: 200},
		},
	}

	got := AccountsFromConfig(cfg, nil)

	assert.Len(t, got, 2)
	assert.Equal(t, "deployer", got[0].Name)
	assert.Equal(t, "ST1", got[0].STXAddress)
	assert.EqualValues(t, 200, got[0].BalanceUSTX)
	assert.Equal(t, "wallet_1", got[1].Name)
}

func TestAccountsFromConfig_Empty(t *testing.T) {
	cfg := &config.Config{}
	assert.Empty(t, AccountsFromConfig(cfg, nil))
}

func TestAccountsFromConfig_DerivesWhenAddressesAbsent(t *testing.T) {
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	cfg := &config.Config{
		Accounts: map[string]config.Account{
			"wallet_1": {
				Mnemonic:   mnemonic,
				Derivation: "m/44'/5757'/0'/0/0",
				Balance:    500,
			},
		},
	}

	got := AccountsFromConfig(cfg, nil)

	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].STXAddress)
	assert.NotEmpty(t, got[0].BTCAddress)
	assert.EqualValues(t, 500, got[0].BalanceUSTX)
}

func TestAccountsFromConfig_DerivationIsDeterministic(t *testing.T) {
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	cfg := &config.Config{
		Accounts: map[string]config.Account{
			"wallet_1": {Mnemonic: mnemonic, Derivation: "m/44'/5757'/0'/0/0"},
		},
	}

	first := AccountsFromConfig(cfg, nil)
	second := AccountsFromConfig(cfg, nil)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].STXAddress, second[0].STXAddress)
	assert.Equal(t, first[0].BTCAddress, second[0].BTCAddress)
}

func TestAccountsFromConfig_FallsBackOnBadMnemonic(t *testing.T) {
	cfg := &config.Config{
		Accounts: map[string]config.Account{
			"wallet_1": {Mnemonic: "not a real mnemonic", Derivation: "m/44'/5757'/0'/0/0"},
		},
	}

	got := AccountsFromConfig(cfg, nil)

	require.Len(t, got, 1)
	assert.Empty(t, got[0].STXAddress)
	assert.Empty(t, got[0].BTCAddress)
}
