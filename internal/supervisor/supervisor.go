// Package supervisor is the top-level entry point described in spec
// §4.E: it creates the bus and termination channel, wires the
// orchestrator and observer together, and drives the steady-state
// restart/teardown loop the termination channel controls. Grounded on
// the teacher's cmd/server/main.go bootstrap sequence (construct a
// logger, construct dependent services, spawn an HTTP server, block on
// a shutdown signal) generalized to stacks-devnet's two long-lived
// components instead of one.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/hirosystems/stacks-devnet/internal/clarity"
	"github.com/hirosystems/stacks-devnet/internal/config"
	"github.com/hirosystems/stacks-devnet/internal/containerengine"
	"github.com/hirosystems/stacks-devnet/internal/containerengine/dockerengine"
	"github.com/hirosystems/stacks-devnet/internal/devnet"
	"github.com/hirosystems/stacks-devnet/internal/eventbus"
	"github.com/hirosystems/stacks-devnet/internal/observer"
	"github.com/hirosystems/stacks-devnet/internal/stacksrpc"
	"github.com/hirosystems/stacks-devnet/internal/txcodec"
)

// ErrInterrupted is returned by Run when the devnet tore down because
// the termination channel received `true` (spec §6's "130 on
// interrupt-initiated clean shutdown") rather than because a component
// hit a fatal error.
var ErrInterrupted = errors.New("supervisor: interrupted")

// Renderer is the excluded UI collaborator spec §1 names: something that
// consumes bus events and draws them. start-devnet ships no terminal UI
// of its own (out of scope); when Renderer is nil, Run falls back to the
// §4.E.5 "otherwise log events to stdout" path.
type Renderer interface {
	Render(eventbus.Event)
}

// Options bundles the CLI-surface flags from spec §6 plus the
// --log-level flag SPEC_FULL.md adds.
type Options struct {
	NoDashboard        bool
	DeploymentPlanPath string
	LogLevel           slog.Level
	Renderer           Renderer
}

// Supervisor is the top-level entry point invoked by cmd/stacks-devnet.
type Supervisor struct {
	// engineFactory and codec are overridable only by tests; production
	// callers always get New's defaults (dockerengine.New,
	// txcodec.NewNopCodec — the real Stacks wire codec is explicitly out
	// of scope per spec §1).
	engineFactory func() (containerengine.Engine, error)
	codec         txcodec.Codec
	clarityLoader clarity.Loader
}

// New builds a Supervisor with production defaults.
func New() *Supervisor {
	return &Supervisor{
		engineFactory: func() (containerengine.Engine, error) { return dockerengine.New() },
		codec:         txcodec.NewNopCodec(),
		clarityLoader: clarity.NewDefaultLoader(),
	}
}

// Run implements the spec §4.E sequence end to end. It blocks until the
// devnet has torn down, either because the termination channel received
// true or because a component hit a fatal error.
func (s *Supervisor) Run(ctx context.Context, manifestPath, overridePath string, opts Options) error {
	cfg, err := config.Load(manifestPath, overridePath)
	if err != nil {
		return fmt.Errorf("supervisor: load config: %w", err)
	}

	logger, closeLog, err := s.buildLogger(cfg.WorkingDir, opts.LogLevel)
	if err != nil {
		return fmt.Errorf("supervisor: build logger: %w", err)
	}
	defer closeLog()

	bus := eventbus.NewBus()
	defer bus.Close()
	termination := eventbus.NewTermination()

	engine, err := s.engineFactory()
	if err != nil {
		return fmt.Errorf("supervisor: container engine unavailable: %w", err)
	}

	derivedAccounts := devnet.AccountsFromConfig(cfg, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	obsCfg := observer.Config{
		Logger:          logger.With("component", "observer"),
		Bus:             bus.Producer(),
		StacksClient:    stacksrpc.NewFactory().Dial(fmt.Sprintf("http://localhost:%d", cfg.Ports.StacksRPC)),
		Codec:           s.codec,
		ClarityLoader:   s.clarityLoader,
		DevnetConfig:    cfg,
		StackingFeeUSTX: cfg.StackingFeeUSTX,
	}
	obs := observer.New(obsCfg)
	obs.StartPoxRefresh(runCtx)

	orch := devnet.NewOrchestrator(devnet.OrchestratorConfig{
		Logger:             logger.With("component", "orchestrator"),
		Engine:             engine,
		Config:             cfg,
		Bus:                bus.Producer(),
		Observer:           obs,
		ClarityLoader:      s.clarityLoader,
		StacksRPC:          stacksrpc.NewFactory(),
		DeploymentPlanPath: opts.DeploymentPlanPath,
	}, derivedAccounts)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		addr := fmt.Sprintf("0.0.0.0:%d", cfg.Ports.OrchestratorIngestion)
		if err := obs.ListenAndServe(runCtx, addr); err != nil {
			logger.Error("observer http server stopped", "err", err)
		}
	}()

	startErrCh := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		startErrCh <- orch.Start(runCtx)
	}()

	termDoneCh := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		termDoneCh <- s.terminationLoop(runCtx, cancel, orch, obs, termination, opts, logger)
	}()

	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		s.consumeBus(runCtx, bus.Events(), logger, opts)
	}()

	installInterruptHandler(termination)

	startErr := <-startErrCh
	if startErr != nil {
		cancel()
	}

	<-uiDone
	wg.Wait()

	if startErr != nil {
		return startErr
	}
	return <-termDoneCh
}

// buildLogger configures the file log sink spec §4.E.2 requires: a JSON
// handler at <working_dir>/devnet.log, info level or above. Grounded on
// the teacher's cmd/server/main.go slog.New(slog.NewJSONHandler(...))
// bootstrap.
func (s *Supervisor) buildLogger(workingDir string, level slog.Level) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(workingDir, 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(workingDir, "devnet.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	return logger, func() { _ = f.Close() }, nil
}

// terminationLoop owns the single cancellation signal spec §5 describes:
// false restarts bitcoin-node/stacks-node (and, per §4.D, reloads the
// deploy queue first), true runs teardown and cancels runCtx so every
// other goroutine unwinds.
func (s *Supervisor) terminationLoop(ctx context.Context, cancel context.CancelFunc, orch *devnet.Orchestrator, obs *observer.Server, termination eventbus.Termination, opts Options, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case exit, ok := <-termination:
			if !ok {
				return nil
			}
			if exit {
				orch.Teardown(context.Background())
				cancel()
				return ErrInterrupted
			}
			if opts.DeploymentPlanPath != "" {
				if err := obs.ReloadContracts(opts.DeploymentPlanPath, orch.BuildDeployQueue); err != nil {
					logger.Warn("live contract reload failed, keeping previous deploy queue", "err", err)
				}
			}
			if err := orch.Restart(ctx); err != nil {
				logger.Error("restart failed", "err", err)
				return fmt.Errorf("supervisor: restart failed: %w", err)
			}
		}
	}
}

// consumeBus implements spec §4.E.5: forward to the UI renderer if one
// is attached, otherwise print to stdout.
func (s *Supervisor) consumeBus(ctx context.Context, events <-chan eventbus.Event, logger *slog.Logger, opts Options) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if !opts.NoDashboard && opts.Renderer != nil {
				opts.Renderer.Render(e)
				continue
			}
			printEvent(e)
		}
	}
}

func printEvent(e eventbus.Event) {
	switch v := e.(type) {
	case eventbus.LogRecord:
		fmt.Fprintf(os.Stdout, "[%s] %s\n", v.Level, v.Message)
	case eventbus.ServiceStatus:
		fmt.Fprintf(os.Stdout, "[%s] %s: %s\n", v.Status, v.Name, v.Comment)
	case eventbus.BlockSummary:
		fmt.Fprintf(os.Stdout, "block #%d (burn #%d): %d transactions\n", v.BlockHeight, v.BurnBlockHeight, len(v.Transactions))
	case eventbus.MempoolAdmission:
		fmt.Fprintf(os.Stdout, "mempool: %s\n", v.Description)
	case eventbus.FatalError:
		fmt.Fprintf(os.Stderr, "⚠️  fatal error — %s\n", v.Message)
	}
}
