package stacksrpc

import "context"

// FakeClient is a test double: every method returns the field of the
// same name, or Err if set. Submitted transactions are recorded in
// Submitted for assertions.
type FakeClient struct {
	Pox         PoxInfo
	Accounts    map[string]AccountInfo
	Err         error
	Submitted   [][]byte
	NextTxID    string
}

func NewFakeClient() *FakeClient {
	return &FakeClient{Accounts: make(map[string]AccountInfo), NextTxID: "0xfake"}
}

func (f *FakeClient) PoxInfo(ctx context.Context) (PoxInfo, error) {
	if f.Err != nil {
		return PoxInfo{}, f.Err
	}
	return f.Pox, nil
}

func (f *FakeClient) AccountInfo(ctx context.Context, principal string) (AccountInfo, error) {
	if f.Err != nil {
		return AccountInfo{}, f.Err
	}
	return f.Accounts[principal], nil
}

func (f *FakeClient) SubmitTransaction(ctx context.Context, raw []byte) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	f.Submitted = append(f.Submitted, raw)
	return f.NextTxID, nil
}

var _ Client = (*FakeClient)(nil)
