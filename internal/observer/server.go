// Package observer implements the chain-event HTTP ingress: it receives
// burn-block, block, microblock, and mempool notifications POSTed by
// the stacks-node, translates them into bus events, and reacts with
// contract deployment and stacking submissions.
package observer

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hirosystems/stacks-devnet/internal/clarity"
	"github.com/hirosystems/stacks-devnet/internal/config"
	"github.com/hirosystems/stacks-devnet/internal/eventbus"
	"github.com/hirosystems/stacks-devnet/internal/pox"
	"github.com/hirosystems/stacks-devnet/internal/stacksrpc"
	"github.com/hirosystems/stacks-devnet/internal/txcodec"
)

// Config bundles everything the observer needs at construction, mirroring
// the teacher's OrchestratorConfig{Logger, ...} shape.
type Config struct {
	Logger          *slog.Logger
	Bus             eventbus.Producer
	StacksClient    stacksrpc.Client
	Codec           txcodec.Codec
	ClarityLoader   clarity.Loader
	DevnetConfig    *config.Config
	StackingFeeUSTX uint64
}

// Server is the observer. The deploy queue and deployer nonce live
// behind a single RWMutex (mu), per spec §5: the write lock is held only
// across the queue pop + nonce increment, never across network I/O —
// submission itself runs in a goroutine holding copies. PoX info is kept
// in pox (a pox.Tracker), which has its own lock.
type Server struct {
	logger       *slog.Logger
	bus          eventbus.Producer
	client       stacksrpc.Client
	codec        txcodec.Codec
	loader       clarity.Loader
	cfg          *config.Config
	stackingFee  uint64
	pox          *pox.Tracker

	mu            sync.RWMutex
	queue         []QueueItem
	deployerNonce uint64

	deploymentPlanPath string
}

// New builds a Server. The initial deploy queue is supplied separately
// via SetDeployQueue once the orchestrator has loaded the Clarity
// session (spec §4.C: "the orchestrator's only contribution is to write
// the queue into observer state before booting the stacks-node").
func New(cfg Config) *Server {
	fee := cfg.StackingFeeUSTX
	if fee == 0 {
		fee = config.DefaultStackingFeeUSTX
	}
	return &Server{
		logger:      cfg.Logger,
		bus:         cfg.Bus,
		client:      cfg.StacksClient,
		codec:       cfg.Codec,
		loader:      cfg.ClarityLoader,
		cfg:         cfg.DevnetConfig,
		stackingFee: fee,
		pox:         pox.NewTracker(pox.Info{}),
	}
}

// SetDeployQueue replaces the deploy queue and resets the deployer nonce
// to 0. Called by the orchestrator before first boot, and by live
// contract reload on restart (spec §4.D "Live contract reload").
func (s *Server) SetDeployQueue(items []QueueItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = items
	s.deployerNonce = 0
}

// ReloadContracts re-reads the Clarity session from deploymentPlanPath
// via the configured Loader and replaces the deploy queue, resetting the
// deployer nonce to 0, per spec §4.D's live contract reload: called only
// by the supervisor on a `false` (restart) termination. buildQueue turns
// the freshly loaded session into QueueItems, resolving each contract's
// named deployer account — that resolution is owned by the orchestrator
// (see devnet.Orchestrator.BuildDeployQueue), not the observer.
func (s *Server) ReloadContracts(deploymentPlanPath string, buildQueue func(*clarity.Session) ([]QueueItem, error)) error {
	session, err := s.loader.Load(deploymentPlanPath)
	if err != nil {
		return err
	}
	items, err := buildQueue(session)
	if err != nil {
		return err
	}
	s.SetDeployQueue(items)
	return nil
}

// QueueLen reports the current deploy queue length, for tests and
// status logging.
func (s *Server) QueueLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.queue)
}

// poxRefreshInterval is the background poll period for /v2/pox, chosen
// to sit well under the shortest realistic cycle_length (devnet configs
// typically run single-digit-block cycles) without hammering the node.
const poxRefreshInterval = 5 * time.Second

// StartPoxRefresh launches the background refresh loop spec §5
// describes, keeping PoX info current (and, on a fresh devnet, seeding
// it away from the zero value in the first place) independently of the
// on-cycle-boundary refresh maybeSubmitStackingOrders also performs.
// Safe to call before the stacks-node is reachable: failures are
// logged, not fatal, and the loop keeps retrying on its own ticker.
func (s *Server) StartPoxRefresh(ctx context.Context) {
	s.pox.StartBackgroundRefresh(ctx, s.client, poxRefreshInterval, func(err error) {
		s.logger.Debug("pox refresh failed, keeping previous info", "err", err)
	})
}

// Router builds the chi.Router exposing the five ingestion endpoints,
// grounded on opstack's handler.Routes() pattern.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/new_burn_block", s.handleNewBurnBlock)
	r.Post("/new_block", s.handleNewBlock)
	r.Post("/new_microblocks", s.handleNewMicroblocks)
	r.Post("/new_mempool_tx", s.handleNewMempoolTx)
	r.Post("/drop_mempool_tx", s.handleDropMempoolTx)
	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
