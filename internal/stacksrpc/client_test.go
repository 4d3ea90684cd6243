package stacksrpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeClient_SubmitTransactionRecordsPayload(t *testing.T) {
	c := NewFakeClient()
	txid, err := c.SubmitTransaction(context.Background(), []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, "0xfake", txid)
	require.Len(t, c.Submitted, 1)
	assert.Equal(t, []byte("payload"), c.Submitted[0])
}

func TestFakeClient_AccountInfoLooksUpByPrincipal(t *testing.T) {
	c := NewFakeClient()
	c.Accounts["SP1"] = AccountInfo{Nonce: 3, Balance: "1000"}

	got, err := c.AccountInfo(context.Background(), "SP1")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.Nonce)
}

func TestFakeClient_PropagatesConfiguredError(t *testing.T) {
	c := NewFakeClient()
	c.Err = assert.AnError

	_, err := c.PoxInfo(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
