package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalConfig() Config {
	return Config{
		NetworkName: "test",
		WorkingDir:  "/tmp/devnet",
		Images: ImageConfig{
			BitcoinNode: "bitcoin:regtest",
			StacksNode:  "stacks:devnet",
		},
		Ports: PortConfig{
			BitcoinP2P:            18444,
			BitcoinRPC:            18443,
			StacksP2P:             20444,
			StacksRPC:             20443,
			OrchestratorIngestion: 20445,
		},
		Miner:            DevnetIdentity{BTCAddress: "mvZtyVRRAKBBneJmGuQ2c7kTJ7Pyz5AWSD"},
		FaucetBTCAddress: "mg1C76bNTutiCDtumTGCqxHzUvNnmZo6xQ",
		Accounts: map[string]Account{
			"deployer": {STXAddress: "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"},
		},
		// Only bitcoin-node and stacks-node: the optional services are
		// disabled so their images and ports are not required.
		Toggles: FeatureToggles{
			DisableStacksAPI:       true,
			DisableStacksExplorer:  true,
			DisableBitcoinExplorer: true,
		},
		StackingFeeUSTX: DefaultStackingFeeUSTX,
	}
}

func TestValidate_Minimal(t *testing.T) {
	c := minimalConfig()
	assert.NoError(t, c.Validate())
}

func TestValidate_MissingAccount(t *testing.T) {
	c := minimalConfig()
	c.Accounts = nil

	err := c.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 1)
	assert.Equal(t, "accounts", verr.Errors[0].Field)
}

func TestValidate_PortOutOfRange(t *testing.T) {
	c := minimalConfig()
	c.Ports.BitcoinRPC = 70000

	err := c.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	found := false
	for _, fe := range verr.Errors {
		if fe.Field == "ports.bitcoin_rpc" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate_StackingOrderUnknownWallet(t *testing.T) {
	c := minimalConfig()
	c.PoxStackingOrders = []StackingOrder{
		{StartAtCycle: 1, Duration: 2, WalletName: "wallet_1", Slots: 1, BTCAddress: "addr"},
	}

	err := c.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "pox_stacking_orders[0].wallet_name", verr.Errors[0].Field)
}

func TestValidate_StackingOrderKnownWallet(t *testing.T) {
	c := minimalConfig()
	c.Accounts["wallet_1"] = Account{STXAddress: "ST2..."}
	c.PoxStackingOrders = []StackingOrder{
		{StartAtCycle: 1, Duration: 2, WalletName: "wallet_1", Slots: 1, BTCAddress: "addr"},
	}
	assert.NoError(t, c.Validate())
}

func TestApply_FieldReplacement(t *testing.T) {
	base := minimalConfig()
	newName := "overridden"
	newPorts := PortConfig{BitcoinP2P: 1, BitcoinRPC: 2, StacksP2P: 3, StacksRPC: 4, OrchestratorIngestion: 5}

	merged := Apply(base, &Override{
		NetworkName: &newName,
		Ports:       &newPorts,
	})

	assert.Equal(t, "overridden", merged.NetworkName)
	assert.Equal(t, newPorts, merged.Ports)
	// Untouched fields survive from base.
	assert.Equal(t, base.WorkingDir, merged.WorkingDir)
	assert.Equal(t, base.Accounts, merged.Accounts)
}

func TestApply_StackingOrdersWholeListReplace(t *testing.T) {
	base := minimalConfig()
	base.PoxStackingOrders = []StackingOrder{
		{StartAtCycle: 1, Duration: 1, WalletName: "deployer", Slots: 1, BTCAddress: "a"},
		{StartAtCycle: 2, Duration: 1, WalletName: "deployer", Slots: 1, BTCAddress: "b"},
	}

	replacement := []StackingOrder{{StartAtCycle: 5, Duration: 3, WalletName: "deployer", Slots: 2, BTCAddress: "c"}}
	merged := Apply(base, &Override{PoxStackingOrders: replacement})

	require.Len(t, merged.PoxStackingOrders, 1)
	assert.Equal(t, replacement[0], merged.PoxStackingOrders[0])
}

func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.toml")

	c := minimalConfig()
	require.NoError(t, WriteManifest(path, &c))

	loaded, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, c.NetworkName, loaded.NetworkName)
	assert.Equal(t, c.Images, loaded.Images)
}

func TestLoad_WithOverride(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "manifest.toml")
	overridePath := filepath.Join(dir, "override.toml")

	c := minimalConfig()
	require.NoError(t, WriteManifest(basePath, &c))

	require.NoError(t, os.WriteFile(overridePath, []byte("network_name = \"from-override\"\n"), 0o644))

	loaded, err := Load(basePath, overridePath)
	require.NoError(t, err)
	assert.Equal(t, "from-override", loaded.NetworkName)
}
