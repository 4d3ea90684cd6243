// Package accounts derives the devnet's pre-funded accounts (miner,
// faucet, and the numbered wallet_N accounts) deterministically from a
// mnemonic, so every `start-devnet` run against the same manifest
// produces the same addresses and keys. Grounded on original_source's
// devnet wallet bootstrapping: same BIP39/BIP32 derivation path shape,
// reimplemented against the btcsuite/go-bip39 stack already present in
// the module's dependency tree rather than carried over verbatim.
package accounts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/base/go-bip39"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// Account is a single pre-funded devnet account, addressable both as a
// Stacks principal and as a regtest Bitcoin address, since the devnet's
// bitcoin-node wallet is seeded with the same key material.
type Account struct {
	Name         string
	Mnemonic     string
	Derivation   string // BIP32 path, e.g. "m/44'/5757'/0'/0/0"
	BalanceUSTX  uint64
	STXAddress   string
	BTCAddress   string
	IsMainnet    bool
	privateKeyWIF string
}

// PrivateKeyWIF returns the account's bitcoin-regtest private key in
// wallet-import-format, used only for wallet seeding (devnet/bitcoinrpc).
func (a Account) PrivateKeyWIF() string { return a.privateKeyWIF }

// coinType follows SIP-005's registered Stacks BIP44 coin type; devnet
// accounts are derived under it even though the chain is regtest, so
// mnemonics behave identically to mainnet/testnet wallets.
const coinType = 5757

// Derive produces n+2 deterministic accounts from mnemonic: the miner
// account (index 0), the faucet account (index 1), and n additional
// wallet_N accounts (index 2..n+1), each funded with balanceUSTX.
func Derive(mnemonic string, n int, balanceUSTX uint64) ([]Account, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("derive accounts: invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, "")

	master, err := hdkeychain.NewMaster(seed, &chaincfg.RegressionNetParams)
	if err != nil {
		return nil, fmt.Errorf("derive accounts: master key: %w", err)
	}

	names := make([]string, 0, n+2)
	names = append(names, "miner", "faucet")
	for i := 0; i < n; i++ {
		names = append(names, fmt.Sprintf("wallet_%d", i+1))
	}

	out := make([]Account, 0, len(names))
	for i, name := range names {
		path := []uint32{
			hdkeychain.HardenedKeyStart + 44,
			hdkeychain.HardenedKeyStart + coinType,
			hdkeychain.HardenedKeyStart + 0,
			0,
			uint32(i),
		}
		derivation := fmt.Sprintf("m/44'/%d'/0'/0/%d", coinType, i)
		acct, err := deriveOne(master, path, name, derivation, balanceUSTX, false)
		if err != nil {
			return nil, fmt.Errorf("derive account %s: %w", name, err)
		}
		out = append(out, acct)
	}
	return out, nil
}

// ParseDerivationPath parses a BIP32 path string like "m/44'/5757'/0'/0/0"
// into hdkeychain child-index values, applying hdkeychain.HardenedKeyStart
// to components suffixed with `'`, `h`, or `H`. This is the shape a
// manifest's per-account `derivation` field carries (spec §3's account
// identity: "mnemonic + derivation path + derived bitcoin address").
func ParseDerivationPath(path string) ([]uint32, error) {
	segments := strings.Split(path, "/")
	if len(segments) == 0 || segments[0] != "m" {
		return nil, fmt.Errorf("parse derivation path %q: must start with \"m\"", path)
	}

	out := make([]uint32, 0, len(segments)-1)
	for _, seg := range segments[1:] {
		hardened := strings.HasSuffix(seg, "'") || strings.HasSuffix(seg, "h") || strings.HasSuffix(seg, "H")
		if hardened {
			seg = seg[:len(seg)-1]
		}
		n, err := strconv.ParseUint(seg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse derivation path %q: segment %q: %w", path, seg, err)
		}
		idx := uint32(n)
		if hardened {
			idx += hdkeychain.HardenedKeyStart
		}
		out = append(out, idx)
	}
	return out, nil
}

// DeriveAccount derives a single account's keys and addresses from its
// own mnemonic and derivation path, the shape original_source's
// clarity-repl wallet bootstrap uses for every manifest account rather
// than generating a fixed miner/faucet/wallet_N fleet from one shared
// mnemonic. devnet.AccountsFromConfig calls this to fill in stx_address
// / btc_address when a manifest account leaves them blank.
func DeriveAccount(name, mnemonic, derivationPath string, balanceUSTX uint64, isMainnet bool) (Account, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return Account{}, fmt.Errorf("derive account %s: invalid mnemonic", name)
	}
	path, err := ParseDerivationPath(derivationPath)
	if err != nil {
		return Account{}, fmt.Errorf("derive account %s: %w", name, err)
	}

	seed := bip39.NewSeed(mnemonic, "")
	master, err := hdkeychain.NewMaster(seed, &chaincfg.RegressionNetParams)
	if err != nil {
		return Account{}, fmt.Errorf("derive account %s: master key: %w", name, err)
	}

	return deriveOne(master, path, name, derivationPath, balanceUSTX, isMainnet)
}

func deriveOne(master *hdkeychain.ExtendedKey, path []uint32, name, derivation string, balanceUSTX uint64, isMainnet bool) (Account, error) {
	key := master
	for _, childIndex := range path {
		child, err := key.Derive(childIndex)
		if err != nil {
			return Account{}, err
		}
		key = child
	}

	ecPriv, err := key.ECPrivKey()
	if err != nil {
		return Account{}, err
	}
	ecPub, err := key.ECPubKey()
	if err != nil {
		return Account{}, err
	}

	wif, err := btcutil.NewWIF(ecPriv, &chaincfg.RegressionNetParams, true)
	if err != nil {
		return Account{}, err
	}

	pubKeyHash := btcutil.Hash160(ecPub.SerializeCompressed())
	btcAddr, err := btcutil.NewAddressPubKeyHash(pubKeyHash, &chaincfg.RegressionNetParams)
	if err != nil {
		return Account{}, err
	}

	return Account{
		Name:          name,
		Mnemonic:      "", // only the caller's top-level mnemonic is ever logged/stored
		Derivation:    derivation,
		BalanceUSTX:   balanceUSTX,
		STXAddress:    stacksAddress(pubKeyHash),
		BTCAddress:    btcAddr.EncodeAddress(),
		IsMainnet:     isMainnet,
		privateKeyWIF: wif.String(),
	}, nil
}

// stacksAddress renders a regtest-style Stacks principal from the same
// hash160 used for the bitcoin address. Stacks c32check-encodes the hash
// with a version byte; devnet only ever targets regtest/testnet, so the
// testnet single-sig version (26) is used unconditionally.
func stacksAddress(hash160 []byte) string {
	const testnetSingleSigVersion = 26
	return c32Address(testnetSingleSigVersion, hash160)
}
