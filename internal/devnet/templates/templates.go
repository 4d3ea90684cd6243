// Package templates renders the on-disk config files the orchestrator
// bind-mounts into each service container, the same way
// opstack/compose.go renders a docker-compose.yml: a package-level
// text/template constant plus a small vars struct plus a Generate
// function. Generation is pure — given the same Config and boot index,
// byte-for-byte identical output is produced every time.
package templates

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/hirosystems/stacks-devnet/internal/accounts"
	"github.com/hirosystems/stacks-devnet/internal/config"
)

const bitcoinConfTemplate = `
regtest=1
server=1
rpcworkqueue=100
rpcallowip=0.0.0.0/0
rpcbind=0.0.0.0
rpcuser={{ .RPCUsername }}
rpcpassword={{ .RPCPassword }}
txindex=1
listen=1
bind=0.0.0.0:{{ .P2PPort }}
rpcport={{ .RPCPort }}

[regtest]
rpcuser={{ .RPCUsername }}
rpcpassword={{ .RPCPassword }}
rpcbind=0.0.0.0
rpcallowip=0.0.0.0/0
`

// BitcoinConfVars holds the fields bitcoin.conf interpolates.
type BitcoinConfVars struct {
	RPCUsername string
	RPCPassword string
	P2PPort     int
	RPCPort     int
}

// GenerateBitcoinConf renders bitcoin.conf for the given run config.
func GenerateBitcoinConf(cfg *config.Config) (string, error) {
	return render("bitcoin.conf", bitcoinConfTemplate, BitcoinConfVars{
		RPCUsername: cfg.BitcoinNode.Username,
		RPCPassword: cfg.BitcoinNode.Password,
		P2PPort:     cfg.Ports.BitcoinP2P,
		RPCPort:     cfg.Ports.BitcoinRPC,
	})
}

const stacksTomlTemplate = `
[node]
working_dir = "/devnet"
rpc_bind = "0.0.0.0:{{ .StacksRPCPort }}"
p2p_bind = "0.0.0.0:{{ .StacksP2PPort }}"
miner = true
seed = "{{ .MinerSecretKeyHex }}"
local_peer_seed = "{{ .MinerSecretKeyHex }}"
wait_time_for_microblocks = 5000
wait_time_for_blocks = 0
pox_sync_sample_secs = 10
microblock_frequency = 15000

[miner]
first_attempt_time_ms = 10000
subsequent_attempt_time_ms = 10000
{{ range .Balances }}
[[ustx_balance]]
address = "{{ .Address }}"
amount = {{ .Balance }}
{{ end }}
[[events_observer]]
endpoint = "host.docker.internal:{{ .OrchestratorIngestionPort }}"
include_data_events = true
events_keys = ["*"]
retry_count = 255
{{ if .StacksAPIEnabled }}
[[events_observer]]
endpoint = "stacks-api.{{ .NetworkName }}:{{ .StacksAPIEventsPort }}"
include_data_events = true
events_keys = ["*"]
retry_count = 255
{{ end }}
{{ range .ExtraObservers }}
[[events_observer]]
endpoint = "{{ . }}"
include_data_events = true
events_keys = ["*"]
retry_count = 255
{{ end }}
[burnchain]
chain = "bitcoin"
mode = "krypton"
poll_time_secs = 1
peer_host = "host.docker.internal"
username = "{{ .BitcoinUsername }}"
password = "{{ .BitcoinPassword }}"
rpc_port = {{ .OrchestratorIngestionPort }}
peer_port = {{ .BitcoinP2PPort }}
{{ if .EnableNextFeatures }}
pox_2_activation = {{ .Epoch21ActivationHeight }}
{{ range .Epochs }}
[[burnchain.epochs]]
epoch_name = "{{ .Name }}"
start_height = {{ .StartHeight }}
{{ end }}
{{ end }}
`

// StacksTomlBalance is one [[ustx_balance]] entry.
type StacksTomlBalance struct {
	Address string
	Balance uint64
}

// StacksTomlEpoch is one [[burnchain.epochs]] entry.
type StacksTomlEpoch struct {
	Name        string
	StartHeight uint64
}

// StacksTomlVars holds every field Stacks.toml interpolates.
type StacksTomlVars struct {
	StacksRPCPort             int
	StacksP2PPort             int
	MinerSecretKeyHex         string
	Balances                  []StacksTomlBalance
	OrchestratorIngestionPort int
	StacksAPIEnabled          bool
	NetworkName               string
	StacksAPIEventsPort       int
	ExtraObservers            []string
	BitcoinUsername           string
	BitcoinPassword           string
	BitcoinP2PPort            int
	EnableNextFeatures        bool
	Epoch21ActivationHeight   uint64
	Epochs                    []StacksTomlEpoch
}

// sortedEpochs converts Config.EpochActivationHeights into an
// ascending-by-height ordered slice. Map iteration order is
// non-deterministic, so ranging over EpochActivationHeights directly
// would make Stacks.toml's [[burnchain.epochs]] ordering vary between
// otherwise-identical runs; sorting by StartHeight keeps generation
// pure, as every other template in this package already is.
func sortedEpochs(heights map[string]uint64) []StacksTomlEpoch {
	entries := make([]StacksTomlEpoch, 0, len(heights))
	for name, height := range heights {
		entries = append(entries, StacksTomlEpoch{Name: name, StartHeight: height})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StartHeight < entries[j].StartHeight })
	return entries
}

// GenerateStacksToml renders Stacks.toml from cfg and the already-derived
// account set (so balances reflect the devnet's actual mnemonic
// derivation, not just the manifest's literal account table).
func GenerateStacksToml(cfg *config.Config, derived []accounts.Account) (string, error) {
	balances := make([]StacksTomlBalance, 0, len(derived))
	for _, a := range derived {
		balances = append(balances, StacksTomlBalance{Address: a.STXAddress, Balance: a.BalanceUSTX})
	}

	epochs := sortedEpochs(cfg.EpochActivationHeights)
	var epoch21 uint64
	for _, e := range epochs {
		if e.Name == "2.1" {
			epoch21 = e.StartHeight
			break
		}
	}

	return render("Stacks.toml", stacksTomlTemplate, StacksTomlVars{
		StacksRPCPort:             cfg.Ports.StacksRPC,
		StacksP2PPort:             cfg.Ports.StacksP2P,
		MinerSecretKeyHex:         cfg.Miner.SecretKeyHex,
		Balances:                  balances,
		OrchestratorIngestionPort: cfg.Ports.OrchestratorIngestion,
		StacksAPIEnabled:          cfg.StacksAPIEnabled(),
		NetworkName:               cfg.NetworkName,
		StacksAPIEventsPort:       cfg.Ports.StacksAPIEvents,
		ExtraObservers:            cfg.ExtraEventObservers,
		BitcoinUsername:           cfg.BitcoinNode.Username,
		BitcoinPassword:           cfg.BitcoinNode.Password,
		BitcoinP2PPort:            cfg.Ports.BitcoinP2P,
		EnableNextFeatures:        cfg.Toggles.EnableNextFeatures,
		Epoch21ActivationHeight:   epoch21,
		Epochs:                    epochs,
	})
}

const subnetTomlTemplate = `
[node]
working_dir = "/subnet"
rpc_bind = "0.0.0.0:{{ .SubnetRPCPort }}"
p2p_bind = "0.0.0.0:{{ .SubnetP2PPort }}"
miner = true
seed = "{{ .LeaderSecretKeyHex }}"
local_peer_seed = "{{ .LeaderSecretKeyHex }}"

[burnchain]
chain = "stacks_layer_1"
rpc_port = {{ .StacksRPCPort }}
peer_host = "stacks-node.{{ .NetworkName }}"
`

// SubnetTomlVars holds every field Subnet.toml interpolates.
type SubnetTomlVars struct {
	SubnetRPCPort      int
	SubnetP2PPort      int
	LeaderSecretKeyHex string
	StacksRPCPort      int
	NetworkName        string
}

// GenerateSubnetToml renders Subnet.toml; only called when the subnet
// node is enabled.
func GenerateSubnetToml(cfg *config.Config) (string, error) {
	return render("Subnet.toml", subnetTomlTemplate, SubnetTomlVars{
		SubnetRPCPort:      cfg.Ports.SubnetNodeRPC,
		SubnetP2PPort:      cfg.Ports.SubnetNodeP2P,
		LeaderSecretKeyHex: cfg.SubnetLeader.SecretKeyHex,
		StacksRPCPort:      cfg.Ports.StacksRPC,
		NetworkName:        cfg.NetworkName,
	})
}

func render(name, tmpl string, vars any) (string, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("templates: parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("templates: render %s: %w", name, err)
	}
	return strings.TrimLeft(buf.String(), "\n"), nil
}
