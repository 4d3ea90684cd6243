package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosystems/stacks-devnet/internal/accounts"
	"github.com/hirosystems/stacks-devnet/internal/config"
)

func fixtureConfig() *config.Config {
	return &config.Config{
		NetworkName: "devnet",
		BitcoinNode: config.BitcoinNodeCredentials{Username: "devnet", Password: "devnet"},
		Ports: config.PortConfig{
			BitcoinP2P:            18444,
			BitcoinRPC:            18443,
			StacksRPC:             20443,
			StacksP2P:             20444,
			OrchestratorIngestion: 20445,
			StacksAPIEvents:       20446,
		},
		Miner: config.DevnetIdentity{SecretKeyHex: "deadbeef"},
	}
}

func TestGenerateBitcoinConf_IsDeterministic(t *testing.T) {
	cfg := fixtureConfig()
	a, err := GenerateBitcoinConf(cfg)
	require.NoError(t, err)
	b, err := GenerateBitcoinConf(cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, a, "rpcuser=devnet")
	assert.Contains(t, a, "bind=0.0.0.0:18444")
}

func TestGenerateStacksToml_IncludesBalancesAndObserver(t *testing.T) {
	cfg := fixtureConfig()
	cfg.Toggles.DisableStacksAPI = true
	derived := []accounts.Account{
		{STXAddress: "ST1ABC", BalanceUSTX: 100},
		{STXAddress: "ST2DEF", BalanceUSTX: 200},
	}

	out, err := GenerateStacksToml(cfg, derived)
	require.NoError(t, err)
	assert.Contains(t, out, `address = "ST1ABC"`)
	assert.Contains(t, out, `amount = 100`)
	assert.Contains(t, out, "host.docker.internal:20445")
	assert.NotContains(t, out, "stacks-api.devnet")
}

func TestGenerateStacksToml_EpochsOnlyWhenEnabled(t *testing.T) {
	cfg := fixtureConfig()
	cfg.Toggles.EnableNextFeatures = true
	cfg.EpochActivationHeights = map[string]uint64{"2.1": 110}

	out, err := GenerateStacksToml(cfg, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "pox_2_activation = 110")
	assert.Contains(t, out, `epoch_name = "2.1"`)

	cfg.Toggles.EnableNextFeatures = false
	out, err = GenerateStacksToml(cfg, nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "pox_2_activation")
	assert.NotContains(t, out, "epoch_name")
}

func TestGenerateStacksToml_ByteIdenticalAcrossCalls(t *testing.T) {
	cfg := fixtureConfig()
	derived := []accounts.Account{{STXAddress: "ST1ABC", BalanceUSTX: 100}}

	a, err := GenerateStacksToml(cfg, derived)
	require.NoError(t, err)
	b, err := GenerateStacksToml(cfg, derived)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestGenerateStacksToml_EpochOrderIsDeterministic guards against
// ranging over EpochActivationHeights directly: map iteration order is
// randomized per run, so with several epochs a naive implementation
// would render [[burnchain.epochs]] in a different order each call.
func TestGenerateStacksToml_EpochOrderIsDeterministic(t *testing.T) {
	cfg := fixtureConfig()
	cfg.Toggles.EnableNextFeatures = true
	cfg.EpochActivationHeights = map[string]uint64{
		"2.4": 140,
		"2.1": 110,
		"2.3": 130,
		"2.2": 120,
	}

	first, err := GenerateStacksToml(cfg, nil)
	require.NoError(t, err)

	wantOrder := []string{`epoch_name = "2.1"`, `epoch_name = "2.2"`, `epoch_name = "2.3"`, `epoch_name = "2.4"`}
	prev := -1
	for _, marker := range wantOrder {
		idx := strings.Index(first, marker)
		require.Greater(t, idx, prev, "epochs must appear in ascending start_height order")
		prev = idx
	}

	for i := 0; i < 5; i++ {
		again, err := GenerateStacksToml(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
