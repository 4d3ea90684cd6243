package config

// Override carries the config-override layer described in spec §3/§4.A:
// every field is optional. A present field replaces the base value
// wholesale; an absent field leaves the base untouched. The merge is
// shallow per field — nested structs and lists are never merged
// element-wise, they are replaced in their entirety.
type Override struct {
	NetworkName *string `toml:"network_name"`
	WorkingDir  *string `toml:"working_dir"`

	Images *ImageConfig `toml:"images"`
	Ports  *PortConfig  `toml:"ports"`

	BitcoinNode *BitcoinNodeCredentials `toml:"bitcoin_node"`
	Postgres    *PostgresCredentials    `toml:"postgres"`

	Miner        *DevnetIdentity `toml:"miner"`
	SubnetLeader *DevnetIdentity `toml:"subnet_leader"`

	// Accounts, present (even as an empty table) iff the override file's
	// [accounts] table appears at all.
	Accounts map[string]Account `toml:"accounts"`

	Toggles *FeatureToggles `toml:"toggles"`

	EpochActivationHeights map[string]uint64 `toml:"epoch_activation_heights"`
	ExtraEventObservers    []string          `toml:"extra_event_observers"`

	// PoxStackingOrders is always replaced whole-list, never merged
	// element-wise, per spec §3's explicit note on deep-merge exclusion.
	PoxStackingOrders []StackingOrder `toml:"pox_stacking_orders"`

	EnvVars map[string][]EnvVar `toml:"env_vars"`

	StackingFeeUSTX *uint64 `toml:"stacking_fee_ustx"`
}

// Apply merges ov on top of base, field by field, and returns the result.
// base is not mutated.
func Apply(base Config, ov *Override) Config {
	out := base
	if ov == nil {
		return out
	}

	if ov.NetworkName != nil {
		out.NetworkName = *ov.NetworkName
	}
	if ov.WorkingDir != nil {
		out.WorkingDir = *ov.WorkingDir
	}
	if ov.Images != nil {
		out.Images = *ov.Images
	}
	if ov.Ports != nil {
		out.Ports = *ov.Ports
	}
	if ov.BitcoinNode != nil {
		out.BitcoinNode = *ov.BitcoinNode
	}
	if ov.Postgres != nil {
		out.Postgres = *ov.Postgres
	}
	if ov.Miner != nil {
		out.Miner = *ov.Miner
	}
	if ov.SubnetLeader != nil {
		out.SubnetLeader = *ov.SubnetLeader
	}
	if ov.Accounts != nil {
		out.Accounts = ov.Accounts
	}
	if ov.Toggles != nil {
		out.Toggles = *ov.Toggles
	}
	if ov.EpochActivationHeights != nil {
		out.EpochActivationHeights = ov.EpochActivationHeights
	}
	if ov.ExtraEventObservers != nil {
		out.ExtraEventObservers = ov.ExtraEventObservers
	}
	if ov.PoxStackingOrders != nil {
		out.PoxStackingOrders = ov.PoxStackingOrders
	}
	if ov.EnvVars != nil {
		out.EnvVars = ov.EnvVars
	}
	if ov.StackingFeeUSTX != nil {
		out.StackingFeeUSTX = *ov.StackingFeeUSTX
	}

	return out
}
