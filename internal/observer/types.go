package observer

// These mirror the node's event-observer POST bodies verbatim (spec
// §4.D's HTTP surface table); field names follow the node's own JSON,
// not Go convention, because the node controls the wire format.

type newBurnBlockBody struct {
	BurnBlockHash      string   `json:"burn_block_hash"`
	BurnBlockHeight    uint64   `json:"burn_block_height"`
	RewardSlotHolders  []string `json:"reward_slot_holders"`
	BurnAmount         uint64   `json:"burn_amount"`
}

type txEnvelope struct {
	TxID      string `json:"txid"`
	Status    string `json:"status"`
	RawResult string `json:"raw_result"`
	RawTx     string `json:"raw_tx"`
}

type newBlockBody struct {
	BlockHeight     uint64        `json:"block_height"`
	BlockHash       string        `json:"block_hash"`
	BurnBlockHeight uint64        `json:"burn_block_height"`
	BurnBlockHash   string        `json:"burn_block_hash"`
	Transactions    []txEnvelope  `json:"transactions"`
}

type newMicroblocksBody struct {
	Transactions []txEnvelope `json:"transactions"`
}

type ackResponse struct {
	Status int    `json:"status"`
	Result string `json:"result"`
}

func ok() ackResponse { return ackResponse{Status: 200, Result: "Ok"} }
