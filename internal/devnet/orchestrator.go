// Package devnet is the service lifecycle manager ("orchestrator"): it
// owns container handles for a run, drives the startup sequence,
// generates on-disk config, performs bitcoin wallet seeding, and
// implements the restart and teardown protocols. Grounded directly on
// opstack/orchestrator.go's stage-driven shape (an injected logger, a
// config struct, ordered stage execution) and opstack/compose.go's
// template-based artifact generation.
package devnet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hirosystems/stacks-devnet/internal/accounts"
	"github.com/hirosystems/stacks-devnet/internal/clarity"
	"github.com/hirosystems/stacks-devnet/internal/config"
	"github.com/hirosystems/stacks-devnet/internal/containerengine"
	"github.com/hirosystems/stacks-devnet/internal/devnet/bitcoinrpc"
	"github.com/hirosystems/stacks-devnet/internal/eventbus"
	"github.com/hirosystems/stacks-devnet/internal/observer"
	"github.com/hirosystems/stacks-devnet/internal/stacksrpc"
)

// OrchestratorConfig bundles an Orchestrator's dependencies, mirroring
// opstack.OrchestratorConfig's shape: a logger plus collaborators, never
// global state.
type OrchestratorConfig struct {
	Logger        *slog.Logger
	Engine        containerengine.Engine
	Config        *config.Config
	Bus           eventbus.Producer
	Observer      *observer.Server
	ClarityLoader clarity.Loader
	StacksRPC     *stacksrpc.Factory
	BitcoinDial   func(host, user, pass string) (bitcoinrpc.Client, error)
	DeploymentPlanPath string
}

// Orchestrator drives one devnet run's container lifecycle.
type Orchestrator struct {
	logger   *slog.Logger
	engine   containerengine.Engine
	cfg      *config.Config
	bus      eventbus.Producer
	observer *observer.Server
	loader   clarity.Loader
	rpcFactory *stacksrpc.Factory
	dialBitcoin func(host, user, pass string) (bitcoinrpc.Client, error)
	deploymentPlanPath string

	accounts  []accounts.Account
	handles   map[ServiceKind]Handle
	bootIndex int
}

// NewOrchestrator builds an Orchestrator. accounts is the pre-funded
// account set resolved from the manifest (see AccountsFromConfig); the
// orchestrator itself never derives keys, it only reads the addresses
// and balances in that set.
func NewOrchestrator(oc OrchestratorConfig, derived []accounts.Account) *Orchestrator {
	logger := oc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dial := oc.BitcoinDial
	if dial == nil {
		dial = func(host, user, pass string) (bitcoinrpc.Client, error) { return bitcoinrpc.Dial(host, user, pass) }
	}
	return &Orchestrator{
		logger:             logger,
		engine:             oc.Engine,
		cfg:                oc.Config,
		bus:                oc.Bus,
		observer:           oc.Observer,
		loader:             oc.ClarityLoader,
		rpcFactory:         oc.StacksRPC,
		dialBitcoin:        dial,
		deploymentPlanPath: oc.DeploymentPlanPath,
		accounts:           derived,
		handles:            make(map[ServiceKind]Handle),
		bootIndex:          1,
	}
}

func (o *Orchestrator) projectLabel() map[string]string {
	return map[string]string{"project": o.cfg.NetworkName}
}

func (o *Orchestrator) networkName() string {
	return "devnet-" + o.cfg.NetworkName
}

// Start runs session cleanup, then boots every enabled service in
// catalogue order. It returns once the full boot sequence has completed
// or a fatal error has been teardown'd.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.cleanupPriorSession(ctx)

	if err := o.prepareWorkingDir(); err != nil {
		return o.fail(ctx, "prepare working dir: %w", err)
	}

	if _, err := o.engine.CreateNetwork(ctx, o.networkName(), o.projectLabel()); err != nil {
		return o.fail(ctx, "create network: %w", err)
	}

	boot, skipped := BootOrder(o.serviceEnabled)
	for _, svc := range skipped {
		o.bus.Status(svc.DisplayOrder, svc.DisplayName, eventbus.StatusRed, "disabled")
	}

	session, deployQueue, err := o.loadDeployQueue()
	if err != nil {
		o.logger.Warn("deployment plan load failed, booting with an empty deploy queue", "err", err)
	} else if o.observer != nil {
		o.observer.SetDeployQueue(deployQueue)
	}
	_ = session

	for _, svc := range boot {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := o.bootService(ctx, svc); err != nil {
			return o.fail(ctx, "boot %s: %w", svc.DisplayName, err)
		}
	}

	return nil
}

func (o *Orchestrator) serviceEnabled(kind ServiceKind) bool {
	switch kind {
	case ServicePostgres:
		return o.cfg.PostgresEnabled()
	case ServiceStacksAPI:
		return o.cfg.StacksAPIEnabled()
	case ServiceSubnetNode:
		return o.cfg.Toggles.EnableSubnetNode
	case ServiceSubnetAPI:
		return o.cfg.SubnetAPIEnabled()
	case ServiceStacksExplorer:
		return o.cfg.StacksExplorerEnabled()
	case ServiceBitcoinExplorer:
		return o.cfg.BitcoinExplorerEnabled()
	default:
		return true
	}
}

func (o *Orchestrator) prepareWorkingDir() error {
	for _, dir := range []string{"conf", fmt.Sprintf("data/%d", o.bootIndex)} {
		if err := os.MkdirAll(filepath.Join(o.cfg.WorkingDir, dir), 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) confPath(name string) string {
	return filepath.Join(o.cfg.WorkingDir, "conf", name)
}

// bootService runs the eight-step startup protocol from spec §4.C for a
// single service.
func (o *Orchestrator) bootService(ctx context.Context, svc ServiceSpec) error {
	o.bus.Status(svc.DisplayOrder, svc.DisplayName, eventbus.StatusYellow, "preparing container")

	spec, image, err := o.prepareService(svc)
	if err != nil {
		return err
	}

	if err := o.engine.PullImage(ctx, image); err != nil {
		return fmt.Errorf("pull image %s: %w", image, err)
	}

	id, err := o.engine.CreateContainer(ctx, spec)
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}
	o.handles[svc.Kind] = Handle{ServiceKind: svc.Kind, EngineID: id, Labels: spec.Labels}

	if err := o.engine.StartContainer(ctx, id); err != nil {
		return fmt.Errorf("start container: %w", err)
	}
	o.bus.Status(svc.DisplayOrder, svc.DisplayName, eventbus.StatusYellow, "booting")

	if err := o.engine.ConnectNetwork(ctx, o.networkName(), id); err != nil {
		return fmt.Errorf("connect network: %w", err)
	}

	// Wallet seeding happens on the first boot only; Restart (bootIndex > 1)
	// recreates bitcoin-node without seeding it again.
	if svc.Kind == ServiceBitcoinNode && o.bootIndex == 1 {
		if err := o.seedWallet(ctx); err != nil {
			return fmt.Errorf("seed wallet: %w", err)
		}
	}

	if svc.Kind == ServicePostgres && o.cfg.SubnetAPIEnabled() {
		if err := o.createSubnetAPIDatabase(ctx, id); err != nil {
			return fmt.Errorf("create subnet-api database: %w", err)
		}
	}

	if svc.DisplayOrder >= 0 && svc.Kind != ServiceBitcoinNode && svc.Kind != ServiceStacksNode {
		o.bus.Status(svc.DisplayOrder, svc.DisplayName, eventbus.StatusGreen, o.readyURL(svc.Kind))
	}
	return nil
}

func (o *Orchestrator) readyURL(kind ServiceKind) string {
	switch kind {
	case ServiceStacksAPI:
		return fmt.Sprintf("http://localhost:%d", o.cfg.Ports.StacksAPI)
	case ServiceStacksExplorer:
		return fmt.Sprintf("http://localhost:%d", o.cfg.Ports.StacksExplorer)
	case ServiceBitcoinExplorer:
		return fmt.Sprintf("http://localhost:%d", o.cfg.Ports.BitcoinExplorer)
	case ServiceSubnetAPI:
		return fmt.Sprintf("http://localhost:%d", o.cfg.Ports.SubnetAPI)
	default:
		return "ready"
	}
}

// seedWallet runs spec §4.C's bitcoin wallet seeding step exactly once
// per run, after bitcoin-node's container has first started.
func (o *Orchestrator) seedWallet(ctx context.Context) error {
	client, err := o.dialBitcoin(
		fmt.Sprintf("localhost:%d", o.cfg.Ports.BitcoinRPC),
		o.cfg.BitcoinNode.Username,
		o.cfg.BitcoinNode.Password,
	)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := bitcoinrpc.SeedWallet(ctx, client, "devnet", o.cfg.Miner.BTCAddress, o.cfg.FaucetBTCAddress); err != nil {
		return err
	}

	for _, acct := range o.accounts {
		if err := client.ImportAddress(ctx, acct.BTCAddress); err != nil {
			o.logger.Warn("import address failed", "account", acct.Name, "err", err)
		}
	}
	return nil
}

// createSubnetAPIDatabase runs spec §4.B's single documented use of
// Exec: postgres's image only provisions one database (POSTGRES_DB,
// used for stacks-api), so subnet-api's database is created with a
// one-shot `createdb` inside the already-running postgres container.
// Postgres takes a moment to start accepting connections after its
// container starts, so this retries the same way wallet-seeding waits
// for bitcoind: no fixed timeout, cancelled only by ctx.
func (o *Orchestrator) createSubnetAPIDatabase(ctx context.Context, postgresID string) error {
	argv := []string{"createdb", "-U", o.cfg.Postgres.Username, o.cfg.Postgres.SubnetAPIDatabase}
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		status, err := o.engine.Exec(ctx, postgresID, argv)
		if err == nil && status == 0 {
			return nil
		}
		o.logger.Debug("waiting for postgres before creating subnet-api database", "err", err, "status", status)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// fail emits a fatal error on the bus, runs teardown, and returns the
// formatted error to the caller, per spec §4.C/§7's propagation policy.
func (o *Orchestrator) fail(ctx context.Context, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	o.bus.Fatal("%s", err.Error())
	o.Teardown(context.Background())
	return err
}
