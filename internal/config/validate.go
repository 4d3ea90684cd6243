package config

import "fmt"

// FieldError reports that a single field of the manifest failed
// validation. Multiple FieldErrors are collected into a ValidationError.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationError aggregates every FieldError found while validating a
// Config. It is returned instead of the first error so a caller can fix
// a manifest in one pass instead of one error at a time.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid config: " + e.Errors[0].Error()
	}
	msg := fmt.Sprintf("invalid config: %d errors", len(e.Errors))
	for _, fe := range e.Errors {
		msg += "\n  - " + fe.Error()
	}
	return msg
}

func (e *ValidationError) add(field, reason string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Reason: reason})
}

// Validate checks a fully merged Config for internal consistency: every
// referenced account resolves, every image string required by an enabled
// service is non-empty, every port is in 1..65535, and every stacking
// order references a known wallet with duration >= 1.
func (c *Config) Validate() error {
	verr := &ValidationError{}

	if c.NetworkName == "" {
		verr.add("network_name", "must not be empty")
	}
	if c.WorkingDir == "" {
		verr.add("working_dir", "must not be empty")
	}

	c.validateImages(verr)
	c.validatePorts(verr)
	c.validateIdentities(verr)
	c.validateAccounts(verr)
	c.validateStackingOrders(verr)

	if len(verr.Errors) == 0 {
		return nil
	}
	return verr
}

func (c *Config) validateImages(verr *ValidationError) {
	required := map[string]string{
		"images.bitcoin_node": c.Images.BitcoinNode,
		"images.stacks_node":  c.Images.StacksNode,
	}
	if c.StacksAPIEnabled() {
		required["images.stacks_api"] = c.Images.StacksAPI
		required["images.postgres"] = c.Images.Postgres
	}
	if c.StacksExplorerEnabled() {
		required["images.stacks_explorer"] = c.Images.StacksExplorer
	}
	if c.BitcoinExplorerEnabled() {
		required["images.bitcoin_explorer"] = c.Images.BitcoinExplorer
	}
	if c.Toggles.EnableSubnetNode {
		required["images.subnet_node"] = c.Images.SubnetNode
		if c.SubnetAPIEnabled() {
			required["images.subnet_api"] = c.Images.SubnetAPI
		}
	}
	for field, value := range required {
		if value == "" {
			verr.add(field, "image reference must not be empty")
		}
	}
}

func (c *Config) validatePorts(verr *ValidationError) {
	ports := map[string]int{
		"ports.bitcoin_p2p":            c.Ports.BitcoinP2P,
		"ports.bitcoin_rpc":            c.Ports.BitcoinRPC,
		"ports.stacks_p2p":             c.Ports.StacksP2P,
		"ports.stacks_rpc":             c.Ports.StacksRPC,
		"ports.orchestrator_ingestion": c.Ports.OrchestratorIngestion,
	}
	if c.StacksAPIEnabled() {
		ports["ports.stacks_api"] = c.Ports.StacksAPI
		ports["ports.stacks_api_events"] = c.Ports.StacksAPIEvents
		ports["ports.postgres"] = c.Ports.Postgres
	}
	if c.StacksExplorerEnabled() {
		ports["ports.stacks_explorer"] = c.Ports.StacksExplorer
	}
	if c.BitcoinExplorerEnabled() {
		ports["ports.bitcoin_explorer"] = c.Ports.BitcoinExplorer
	}
	if c.Toggles.EnableSubnetNode {
		ports["ports.subnet_node_p2p"] = c.Ports.SubnetNodeP2P
		ports["ports.subnet_node_rpc"] = c.Ports.SubnetNodeRPC
		if c.SubnetAPIEnabled() {
			ports["ports.subnet_api"] = c.Ports.SubnetAPI
		}
	}
	for field, port := range ports {
		if port < 1 || port > 65535 {
			verr.add(field, fmt.Sprintf("port %d out of range 1..65535", port))
		}
	}
}

func (c *Config) validateIdentities(verr *ValidationError) {
	if c.Miner.BTCAddress == "" {
		verr.add("miner.btc_address", "must not be empty")
	}
	if c.FaucetBTCAddress == "" {
		verr.add("faucet_btc_address", "must not be empty")
	}
}

func (c *Config) validateAccounts(verr *ValidationError) {
	if len(c.Accounts) == 0 {
		verr.add("accounts", "at least one pre-funded account is required")
	}
	for name, acct := range c.Accounts {
		if acct.STXAddress == "" {
			verr.add(fmt.Sprintf("accounts[%s].stx_address", name), "must not be empty")
		}
	}
}

func (c *Config) validateStackingOrders(verr *ValidationError) {
	for i, order := range c.PoxStackingOrders {
		field := fmt.Sprintf("pox_stacking_orders[%d]", i)
		if _, ok := c.Accounts[order.WalletName]; !ok {
			verr.add(field+".wallet_name", fmt.Sprintf("unknown wallet %q", order.WalletName))
		}
		if order.Duration < 1 {
			verr.add(field+".duration", "must be >= 1")
		}
		if order.BTCAddress == "" {
			verr.add(field+".btc_address", "must not be empty")
		}
	}
}
