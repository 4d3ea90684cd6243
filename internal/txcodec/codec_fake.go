package txcodec

import "fmt"

// NopCodec is a placeholder Codec: it never touches real Stacks wire
// format. The tests use it, and supervisor.New wires it in as the
// default since the module has no other Codec. Decode returns whatever
// DecodedTx was queued via NewNopCodec; the
// Encode* methods return a deterministic placeholder payload so callers
// can assert on what was requested without a real serializer.
type NopCodec struct {
	queued []DecodedTx
}

// NewNopCodec builds a fake codec that will hand out queued decodes in
// FIFO order, then fall back to a zero-value token transfer.
func NewNopCodec(queued ...DecodedTx) *NopCodec {
	return &NopCodec{queued: queued}
}

func (c *NopCodec) Decode(raw []byte) (DecodedTx, error) {
	if len(c.queued) == 0 {
		return DecodedTx{Kind: TxTokenTransfer}, nil
	}
	next := c.queued[0]
	c.queued = c.queued[1:]
	return next, nil
}

func (c *NopCodec) EncodeContractPublish(deployer string, nonce uint64, name, source string) ([]byte, error) {
	return []byte(fmt.Sprintf("publish:%s:%d:%s", deployer, nonce, name)), nil
}

func (c *NopCodec) EncodeContractCall(deployer string, nonce uint64, contract, fn string, args []string, feeUSTX uint64) ([]byte, error) {
	return []byte(fmt.Sprintf("call:%s:%d:%s:%s", deployer, nonce, contract, fn)), nil
}

var _ Codec = (*NopCodec)(nil)
