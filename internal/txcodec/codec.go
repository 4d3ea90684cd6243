// Package txcodec declares the Stacks transaction wire-format boundary
// that the observer and orchestrator depend on. Encoding/decoding real
// Stacks transactions is explicitly out of scope (spec §1 non-goal); the
// only Codec in this module is the hand-rolled NopCodec (see
// codec_fake.go), used by the tests and as supervisor.New's default.
package txcodec

import (
	"fmt"
	"strings"
)

// TxKind classifies a decoded Stacks transaction's payload type.
type TxKind int

const (
	TxTokenTransfer TxKind = iota
	TxContractCall
	TxContractDeploy
	TxCoinbase
)

func (k TxKind) String() string {
	switch k {
	case TxTokenTransfer:
		return "token_transfer"
	case TxContractCall:
		return "contract_call"
	case TxContractDeploy:
		return "contract_deploy"
	case TxCoinbase:
		return "coinbase"
	default:
		return "unknown"
	}
}

// DecodedTx is the subset of a Stacks transaction the observer needs to
// build a human-readable description and to react to contract deploys.
type DecodedTx struct {
	Kind         TxKind
	Origin       string
	Recipient    string
	AmountUSTX   uint64
	ContractAddr string
	ContractName string
	Fn           string
	Args         []string
}

// Codec turns raw Stacks transaction bytes into DecodedTx and builds the
// raw bytes for the two transaction kinds the observer submits:
// contract-publish (deploys) and contract-call (stacking orders).
type Codec interface {
	Decode(raw []byte) (DecodedTx, error)
	EncodeContractPublish(deployer string, nonce uint64, name, source string) ([]byte, error)
	EncodeContractCall(deployer string, nonce uint64, contract, fn string, args []string, feeUSTX uint64) ([]byte, error)
}

// Describe renders the spec §4.D description strings exactly:
// "transfered: <amount> µSTX from <origin> to <recipient>",
// "invoked: <addr>.<contract>::<fn>(<args>)", "deployed: <origin>.<name>",
// "coinbase".
func Describe(tx DecodedTx) string {
	switch tx.Kind {
	case TxTokenTransfer:
		return fmt.Sprintf("transfered: %d µSTX from %s to %s", tx.AmountUSTX, tx.Origin, tx.Recipient)
	case TxContractCall:
		return fmt.Sprintf("invoked: %s.%s::%s(%s)", tx.ContractAddr, tx.ContractName, tx.Fn, strings.Join(tx.Args, ", "))
	case TxContractDeploy:
		return fmt.Sprintf("deployed: %s.%s", tx.Origin, tx.ContractName)
	case TxCoinbase:
		return "coinbase"
	default:
		return "unknown"
	}
}
