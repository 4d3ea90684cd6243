package bitcoinrpc

import "context"

// FakeClient is a test double recording calls so devnet tests can assert
// on the wallet-seeding protocol's shape without a real bitcoind.
type FakeClient struct {
	Generated     []int64
	GeneratedTo   []string
	WalletCreated string
	Imported      []string
	Err           error
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) WaitForNetwork(ctx context.Context) error { return f.Err }

func (f *FakeClient) CreateWallet(ctx context.Context, name string) error {
	if f.Err != nil {
		return f.Err
	}
	f.WalletCreated = name
	return nil
}

func (f *FakeClient) ImportAddress(ctx context.Context, address string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Imported = append(f.Imported, address)
	return nil
}

func (f *FakeClient) GenerateToAddress(ctx context.Context, n int64, address string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Generated = append(f.Generated, n)
	f.GeneratedTo = append(f.GeneratedTo, address)
	return nil
}

func (f *FakeClient) Close() {}

var _ Client = (*FakeClient)(nil)
