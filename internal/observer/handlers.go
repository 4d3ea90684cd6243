package observer

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/hirosystems/stacks-devnet/internal/config"
	"github.com/hirosystems/stacks-devnet/internal/eventbus"
	"github.com/hirosystems/stacks-devnet/internal/pox"
	"github.com/hirosystems/stacks-devnet/internal/txcodec"
)

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(ok())
}

// decodeBody never fails the request: a malformed body is logged and
// the handler still acks with 200, per spec §4.D failure semantics.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Error("malformed event body", "path", r.URL.Path, "err", err)
		s.bus.Log(eventbus.LevelError, "malformed event body on %s: %v", r.URL.Path, err)
		writeOK(w)
		return false
	}
	return true
}

func (s *Server) handleNewBurnBlock(w http.ResponseWriter, r *http.Request) {
	var body newBurnBlockBody
	if !s.decodeBody(w, r, &body) {
		return
	}

	s.bus.Log(eventbus.LevelInfo, "new burn block at height %d", body.BurnBlockHeight)
	s.bus.Status(displayOrderBitcoinNode, "bitcoin-node", eventbus.StatusGreen,
		fmt.Sprintf("mining blocks (chaintip=#%d)", body.BurnBlockHeight))

	writeOK(w)
}

// displayOrderBitcoinNode/StacksNode mirror devnet.displayOrder without
// importing the devnet package (observer is a leaf the orchestrator
// depends on, not the reverse).
const (
	displayOrderBitcoinNode = 0
	displayOrderStacksNode  = 1
)

func (s *Server) handleNewBlock(w http.ResponseWriter, r *http.Request) {
	var body newBlockBody
	if !s.decodeBody(w, r, &body) {
		return
	}

	s.bus.Status(displayOrderStacksNode, "stacks-node", eventbus.StatusGreen,
		fmt.Sprintf("mining blocks (chaintip=#%d)", body.BlockHeight))
	s.bus.Log(eventbus.LevelInfo, "block #%d (burn #%d): %d transactions",
		body.BlockHeight, body.BurnBlockHeight, len(body.Transactions))

	s.maybeDeployContracts(r.Context())

	summary := eventbus.BlockSummary{
		BlockHeight:     body.BlockHeight,
		BlockHash:       body.BlockHash,
		BurnBlockHeight: body.BurnBlockHeight,
		BurnBlockHash:   body.BurnBlockHash,
	}
	if info := s.pox.Snapshot(); info.CycleLength() > 0 {
		summary.FirstBurnchainBlockHeight = info.FirstBurnchainBlockHeight
		summary.PoxCycleLength = info.CycleLength()
		summary.PoxCycleID = (body.BurnBlockHeight - info.FirstBurnchainBlockHeight) / info.CycleLength()
	}
	for _, tx := range body.Transactions {
		summary.Transactions = append(summary.Transactions, describeTx(s.codec, tx))
	}
	s.bus.Send(summary)

	s.maybeSubmitStackingOrders(r.Context(), body.BurnBlockHeight)

	writeOK(w)
}

func describeTx(codec txcodec.Codec, tx txEnvelope) eventbus.TxSummary {
	desc := "coinbase"
	if raw, err := hex.DecodeString(tx.RawTx); err == nil {
		if decoded, err := codec.Decode(raw); err == nil {
			desc = txcodec.Describe(decoded)
		}
	}
	return eventbus.TxSummary{
		TxID:        tx.TxID,
		Success:     tx.Status == "success",
		Result:      tx.RawResult,
		Description: desc,
	}
}

// maybeDeployContracts implements spec §4.D.3: pop takeNow contracts off
// the queue and submit them in a background task so the HTTP handler
// never blocks on node RPC.
func (s *Server) maybeDeployContracts(ctx context.Context) {
	s.mu.Lock()
	remaining := len(s.queue)
	n := takeNow(remaining)
	var batch []QueueItem
	if n > 0 {
		batch = append(batch, s.queue[:n]...)
		s.queue = s.queue[n:]
	}
	nonces := make([]uint64, len(batch))
	for i := range batch {
		nonces[i] = s.deployerNonce
		s.deployerNonce++
	}
	s.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	go s.submitDeployBatch(context.Background(), batch, nonces)
}

func (s *Server) submitDeployBatch(ctx context.Context, batch []QueueItem, nonces []uint64) {
	for i, item := range batch {
		raw, err := s.codec.EncodeContractPublish(item.Deployer.STXAddress, nonces[i], item.Contract.Name, item.Contract.Source)
		if err != nil {
			s.bus.Log(eventbus.LevelWarning, "encode contract publish %s failed: %v", item.Contract.Name, err)
			return
		}
		if _, err := s.client.SubmitTransaction(ctx, raw); err != nil {
			s.bus.Log(eventbus.LevelWarning, "submit contract publish %s failed: %v (batch aborted)", item.Contract.Name, err)
			return
		}
		s.bus.Log(eventbus.LevelSuccess, "deployed contract %s (nonce %d)", item.Contract.Name, nonces[i])
	}
}

// maybeSubmitStackingOrders implements spec §4.D.5.
func (s *Server) maybeSubmitStackingOrders(ctx context.Context, burnBlockHeight uint64) {
	info := s.pox.Snapshot()
	cycleLength := info.CycleLength()
	if cycleLength == 0 || s.cfg == nil {
		return
	}
	if burnBlockHeight%cycleLength != cycleLength-2 {
		return
	}

	if err := s.pox.Refresh(ctx, s.client); err != nil {
		s.bus.Log(eventbus.LevelWarning, "pox refresh failed, keeping previous info: %v", err)
	}
	info = s.pox.Snapshot()

	currentLen := burnBlockHeight - info.FirstBurnchainBlockHeight
	cycleID := currentLen / cycleLength

	for _, order := range s.cfg.PoxStackingOrders {
		if order.StartAtCycle != cycleID+1 {
			continue
		}
		go s.submitStackingOrder(context.Background(), order, info, burnBlockHeight)
	}
}

func (s *Server) submitStackingOrder(ctx context.Context, order config.StackingOrder, info pox.Info, burnBlockHeight uint64) {
	acct, ok := s.resolveWallet(order.WalletName)
	if !ok {
		s.bus.Log(eventbus.LevelWarning, "stacking order references unknown wallet %s", order.WalletName)
		return
	}

	accountInfo, err := s.client.AccountInfo(ctx, acct.STXAddress)
	if err != nil {
		s.bus.Log(eventbus.LevelWarning, "stacking order: fetch nonce for %s failed: %v", order.WalletName, err)
		return
	}

	stxAmount := info.MinThresholdUSTX * order.Slots
	hash, err := decodeBTCAddressHash(order.BTCAddress)
	if err != nil {
		s.bus.Log(eventbus.LevelWarning, "stacking order: decode btc address %s failed: %v", order.BTCAddress, err)
		return
	}

	args := []string{
		fmt.Sprintf("uint %d", stxAmount),
		fmt.Sprintf("{version: buff 0x00, hashbytes: buff 0x%s}", hex.EncodeToString(hash)),
		fmt.Sprintf("uint %d", burnBlockHeight-1),
		fmt.Sprintf("uint %d", order.Duration),
	}

	raw, err := s.codec.EncodeContractCall(acct.STXAddress, accountInfo.Nonce, info.ContractID, "stack-stx", args, s.stackingFee)
	if err != nil {
		s.bus.Log(eventbus.LevelWarning, "stacking order: encode stack-stx failed: %v", err)
		return
	}

	if _, err := s.client.SubmitTransaction(ctx, raw); err != nil {
		s.bus.Log(eventbus.LevelWarning, "stacking order: submit stack-stx failed: %v", err)
		return
	}
	s.bus.Log(eventbus.LevelSuccess, "submitted stack-stx for %s: %d uSTX for %d cycles", order.WalletName, stxAmount, order.Duration)
}

func (s *Server) handleNewMicroblocks(w http.ResponseWriter, r *http.Request) {
	var body newMicroblocksBody
	if !s.decodeBody(w, r, &body) {
		return
	}
	s.bus.Log(eventbus.LevelInfo, "new microblocks: %d transactions", len(body.Transactions))
	writeOK(w)
}

func (s *Server) handleNewMempoolTx(w http.ResponseWriter, r *http.Request) {
	var rawHexList []string
	if !s.decodeBody(w, r, &rawHexList) {
		return
	}
	for _, rawHex := range rawHexList {
		desc := "coinbase"
		if raw, err := hex.DecodeString(rawHex); err == nil {
			if decoded, err := s.codec.Decode(raw); err == nil {
				desc = txcodec.Describe(decoded)
			}
		}
		s.bus.Send(eventbus.MempoolAdmission{Description: desc})
	}
	writeOK(w)
}

func (s *Server) handleDropMempoolTx(w http.ResponseWriter, r *http.Request) {
	writeOK(w)
}

// resolveWallet looks up a stacking order's wallet_name against the
// devnet's pre-funded account table.
func (s *Server) resolveWallet(name string) (config.Account, bool) {
	if s.cfg == nil {
		return config.Account{}, false
	}
	acct, ok := s.cfg.Accounts[name]
	return acct, ok
}

// decodeBTCAddressHash extracts the 20-byte hash160 backing a regtest
// bitcoin address, as spec §4.D.5's stack-stx argument needs it.
func decodeBTCAddressHash(address string) ([]byte, error) {
	addr, err := btcutil.DecodeAddress(address, &chaincfg.RegressionNetParams)
	if err != nil {
		return nil, err
	}
	hashable, ok := addr.(interface{ Hash160() *[20]byte })
	if !ok {
		return nil, fmt.Errorf("address %s does not carry a hash160", address)
	}
	h := hashable.Hash160()
	return h[:], nil
}
