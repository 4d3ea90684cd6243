// Package config loads and validates the devnet manifest: the typed
// configuration that drives every other component of the control plane.
package config

// Config is the fully resolved, immutable devnet configuration for a run.
// It is constructed once by Load and then passed by shared reference to
// the orchestrator and the observer.
type Config struct {
	NetworkName string `toml:"network_name"`
	WorkingDir  string `toml:"working_dir"`

	Images ImageConfig `toml:"images"`
	Ports  PortConfig  `toml:"ports"`

	BitcoinNode BitcoinNodeCredentials `toml:"bitcoin_node"`
	Postgres    PostgresCredentials    `toml:"postgres"`

	Miner        DevnetIdentity `toml:"miner"`
	SubnetLeader DevnetIdentity `toml:"subnet_leader"`

	// FaucetBTCAddress is the regtest address 97 of the 101 wallet-seeding
	// blocks are generated to (the miner address gets the other 4). It
	// carries no mnemonic of its own in the manifest; only the address is
	// needed for generate-to-address/importaddress.
	FaucetBTCAddress string `toml:"faucet_btc_address"`

	Accounts map[string]Account `toml:"accounts"`

	Toggles FeatureToggles `toml:"toggles"`

	// EpochActivationHeights maps an epoch name ("2.1", "2.2", ...) to the
	// burn-chain height at which it activates. Only consulted when
	// Toggles.EnableNextFeatures is set.
	EpochActivationHeights map[string]uint64 `toml:"epoch_activation_heights"`

	// ExtraEventObservers are additional URLs the stacks-node tees chain
	// events to, on top of the orchestrator's own ingestion endpoint and
	// the stacks-api endpoint.
	ExtraEventObservers []string `toml:"extra_event_observers"`

	PoxStackingOrders []StackingOrder `toml:"pox_stacking_orders"`

	// EnvVars are free-form KEY=VALUE environment variable extensions,
	// keyed by service name ("bitcoin-node", "stacks-node", ...).
	EnvVars map[string][]EnvVar `toml:"env_vars"`

	// StackingFeeUSTX is the flat fee attached to observer-submitted
	// stack-stx transactions. Hard-coded to 1000 in the original
	// implementation; kept as a constant default but made overridable
	// here per the open question in spec §9.
	StackingFeeUSTX uint64 `toml:"stacking_fee_ustx"`
}

// ImageConfig holds the pullable image reference for each service.
type ImageConfig struct {
	BitcoinNode      string `toml:"bitcoin_node"`
	StacksNode       string `toml:"stacks_node"`
	StacksAPI        string `toml:"stacks_api"`
	Postgres         string `toml:"postgres"`
	StacksExplorer   string `toml:"stacks_explorer"`
	BitcoinExplorer  string `toml:"bitcoin_explorer"`
	SubnetNode       string `toml:"subnet_node"`
	SubnetAPI        string `toml:"subnet_api"`
}

// PortConfig holds the host-side TCP port bound for each service endpoint.
type PortConfig struct {
	BitcoinP2P            int `toml:"bitcoin_p2p"`
	BitcoinRPC            int `toml:"bitcoin_rpc"`
	StacksP2P             int `toml:"stacks_p2p"`
	StacksRPC             int `toml:"stacks_rpc"`
	StacksAPI             int `toml:"stacks_api"`
	StacksAPIEvents       int `toml:"stacks_api_events"`
	StacksExplorer        int `toml:"stacks_explorer"`
	BitcoinExplorer       int `toml:"bitcoin_explorer"`
	Postgres              int `toml:"postgres"`
	OrchestratorIngestion int `toml:"orchestrator_ingestion"`
	SubnetNodeP2P         int `toml:"subnet_node_p2p"`
	SubnetNodeRPC         int `toml:"subnet_node_rpc"`
	SubnetAPI             int `toml:"subnet_api"`
}

// BitcoinNodeCredentials holds the RPC basic-auth credentials used both by
// the orchestrator (for wallet seeding) and written into bitcoin.conf /
// Stacks.toml for the node itself.
type BitcoinNodeCredentials struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// PostgresCredentials holds the shared Postgres user plus one database
// name per consumer (stacks-api, subnet-api).
type PostgresCredentials struct {
	Username          string `toml:"username"`
	Password          string `toml:"password"`
	StacksAPIDatabase string `toml:"stacks_api_database"`
	SubnetAPIDatabase string `toml:"subnet_api_database"`
}

// DevnetIdentity is the shape shared by the miner and the subnet leader:
// a mnemonic-derived key plus its resulting addresses.
type DevnetIdentity struct {
	Mnemonic       string `toml:"mnemonic"`
	DerivationPath string `toml:"derivation_path"`
	BTCAddress     string `toml:"btc_address"`
	SecretKeyHex   string `toml:"secret_key_hex"`
}

// Account is a pre-funded devnet account, keyed by logical name
// ("deployer", "wallet_1", ...) in Config.Accounts.
type Account struct {
	STXAddress string `toml:"stx_address"`
	Balance    uint64 `toml:"balance"`
	BTCAddress string `toml:"btc_address"`
	Mnemonic   string `toml:"mnemonic"`
	Derivation string `toml:"derivation"`
	IsMainnet  bool   `toml:"is_mainnet"`
}

// FeatureToggles enables/disables optional services and behaviors.
type FeatureToggles struct {
	DisableStacksAPI       bool `toml:"disable_stacks_api"`
	DisableStacksExplorer  bool `toml:"disable_stacks_explorer"`
	DisableBitcoinExplorer bool `toml:"disable_bitcoin_explorer"`
	DisableSubnetAPI       bool `toml:"disable_subnet_api"`
	EnableSubnetNode       bool `toml:"enable_subnet_node"`
	BindContainersVolumes  bool `toml:"bind_containers_volumes"`
	AutominingDisabled     bool `toml:"automining_disabled"`
	EnableNextFeatures     bool `toml:"enable_next_features"`
}

// StackingOrder is a pre-declared intent to lock tokens for a cycle range,
// submitted by the observer at the penultimate block of the preceding
// cycle.
type StackingOrder struct {
	StartAtCycle uint64 `toml:"start_at_cycle"`
	Duration     uint64 `toml:"duration"`
	WalletName   string `toml:"wallet_name"`
	Slots        uint64 `toml:"slots"`
	BTCAddress   string `toml:"btc_address"`
}

// EnvVar is a single KEY=VALUE environment variable extension.
type EnvVar struct {
	Key   string `toml:"key"`
	Value string `toml:"value"`
}

// DefaultStackingFeeUSTX is used when a manifest does not set
// stacking_fee_ustx explicitly.
const DefaultStackingFeeUSTX uint64 = 1000

// StacksAPIEnabled reports whether the stacks-api service should boot.
func (c *Config) StacksAPIEnabled() bool { return !c.Toggles.DisableStacksAPI }

// StacksExplorerEnabled reports whether the stacks-explorer service should boot.
func (c *Config) StacksExplorerEnabled() bool { return !c.Toggles.DisableStacksExplorer }

// BitcoinExplorerEnabled reports whether the bitcoin-explorer service should boot.
func (c *Config) BitcoinExplorerEnabled() bool { return !c.Toggles.DisableBitcoinExplorer }

// SubnetAPIEnabled reports whether the subnet-api service should boot.
func (c *Config) SubnetAPIEnabled() bool {
	return c.Toggles.EnableSubnetNode && !c.Toggles.DisableSubnetAPI
}

// PostgresEnabled reports whether a postgres container is required.
func (c *Config) PostgresEnabled() bool {
	return c.StacksAPIEnabled() || c.SubnetAPIEnabled()
}
