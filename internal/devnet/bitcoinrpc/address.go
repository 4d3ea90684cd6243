package bitcoinrpc

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

func decodeAddress(address string) (btcutil.Address, error) {
	return btcutil.DecodeAddress(address, &chaincfg.RegressionNetParams)
}
