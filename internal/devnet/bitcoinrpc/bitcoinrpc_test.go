package bitcoinrpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedWallet_GeneratesThreeNinetySevenOneSplit(t *testing.T) {
	fake := NewFakeClient()
	miner := "mqVnk6NPRdhntvfm4hh9vvjiRkFDUuSYsH"
	faucet := "mg1C76bNTutiCDtumTGCqxHzUvNnmZo6xQ"
	err := SeedWallet(context.Background(), fake, "devnet", miner, faucet)
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 97, 1}, fake.Generated)
	assert.Equal(t, []string{miner, faucet, miner}, fake.GeneratedTo)
	var total int64
	for _, n := range fake.Generated {
		total += n
	}
	assert.EqualValues(t, 101, total)
	assert.Equal(t, "devnet", fake.WalletCreated)
	assert.Equal(t, []string{miner, faucet}, fake.Imported)
}

func TestSeedWallet_PropagatesFailure(t *testing.T) {
	fake := NewFakeClient()
	fake.Err = assert.AnError

	err := SeedWallet(context.Background(), fake, "devnet", "addr", "faucet")
	assert.Error(t, err)
}
