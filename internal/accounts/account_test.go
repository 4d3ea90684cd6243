package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "twice kind fence tip hidden tilt action fragile skin nothing glory cousin green tomorrow spring wrist shed math olympic multiply hip blue scout claw"

func TestDerive_Deterministic(t *testing.T) {
	a, err := Derive(testMnemonic, 2, 100_000_000_000)
	require.NoError(t, err)
	b, err := Derive(testMnemonic, 2, 100_000_000_000)
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].STXAddress, b[i].STXAddress)
		assert.Equal(t, a[i].BTCAddress, b[i].BTCAddress)
		assert.Equal(t, a[i].PrivateKeyWIF(), b[i].PrivateKeyWIF())
	}
}

func TestDerive_NamesAndCount(t *testing.T) {
	got, err := Derive(testMnemonic, 3, 1000)
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, "miner", got[0].Name)
	assert.Equal(t, "faucet", got[1].Name)
	assert.Equal(t, "wallet_1", got[2].Name)
	assert.Equal(t, "wallet_2", got[3].Name)
	assert.Equal(t, "wallet_3", got[4].Name)
}

func TestDerive_DistinctAddressesPerAccount(t *testing.T) {
	got, err := Derive(testMnemonic, 4, 1000)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, a := range got {
		assert.False(t, seen[a.STXAddress], "duplicate STX address for %s", a.Name)
		seen[a.STXAddress] = true
		assert.NotEmpty(t, a.BTCAddress)
		assert.NotEmpty(t, a.PrivateKeyWIF())
	}
}

func TestDerive_InvalidMnemonicRejected(t *testing.T) {
	_, err := Derive("not a valid mnemonic at all", 1, 1000)
	assert.Error(t, err)
}

func TestDerive_BalanceCarried(t *testing.T) {
	got, err := Derive(testMnemonic, 1, 42)
	require.NoError(t, err)
	for _, a := range got {
		assert.Equal(t, uint64(42), a.BalanceUSTX)
	}
}

func TestParseDerivationPath(t *testing.T) {
	got, err := ParseDerivationPath("m/44'/5757'/0'/0/3")
	require.NoError(t, err)
	require.Equal(t, []uint32{
		hardened(44),
		hardened(5757),
		hardened(0),
		0,
		3,
	}, got)
}

func hardened(n uint32) uint32 { return n + 0x80000000 }

func TestParseDerivationPath_RejectsMissingRoot(t *testing.T) {
	_, err := ParseDerivationPath("44'/5757'/0'/0/0")
	assert.Error(t, err)
}

func TestParseDerivationPath_RejectsNonNumericSegment(t *testing.T) {
	_, err := ParseDerivationPath("m/44'/bad/0'/0/0")
	assert.Error(t, err)
}

func TestDeriveAccount_MatchesBulkDeriveForSamePath(t *testing.T) {
	bulk, err := Derive(testMnemonic, 0, 100)
	require.NoError(t, err)

	single, err := DeriveAccount("miner", testMnemonic, "m/44'/5757'/0'/0/0", 100, false)
	require.NoError(t, err)

	assert.Equal(t, bulk[0].STXAddress, single.STXAddress)
	assert.Equal(t, bulk[0].BTCAddress, single.BTCAddress)
	assert.Equal(t, bulk[0].PrivateKeyWIF(), single.PrivateKeyWIF())
}

func TestDeriveAccount_InvalidMnemonicRejected(t *testing.T) {
	_, err := DeriveAccount("wallet_1", "not a valid mnemonic", "m/44'/5757'/0'/0/0", 100, false)
	assert.Error(t, err)
}

func TestDeriveAccount_InvalidPathRejected(t *testing.T) {
	_, err := DeriveAccount("wallet_1", testMnemonic, "not/a/path", 100, false)
	assert.Error(t, err)
}
