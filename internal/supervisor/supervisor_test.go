package supervisor

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosystems/stacks-devnet/internal/config"
	"github.com/hirosystems/stacks-devnet/internal/containerengine"
	"github.com/hirosystems/stacks-devnet/internal/devnet"
	"github.com/hirosystems/stacks-devnet/internal/eventbus"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrchestrator(t *testing.T, engine containerengine.Engine, bus eventbus.Producer) *devnet.Orchestrator {
	t.Helper()
	cfg := &config.Config{NetworkName: "test", WorkingDir: t.TempDir()}
	return devnet.NewOrchestrator(devnet.OrchestratorConfig{
		Logger: discardLogger(),
		Engine: engine,
		Config: cfg,
		Bus:    bus,
	}, nil)
}

func TestTerminationLoop_ExitTrueTearsDownAndReturnsErrInterrupted(t *testing.T) {
	engine := containerengine.NewFakeEngine()
	bus := eventbus.NewBus()
	defer bus.Close()
	orch := newTestOrchestrator(t, engine, bus.Producer())

	termination := eventbus.NewTermination()
	termination <- true

	s := New()
	err := s.terminationLoop(context.Background(), func() {}, orch, nil, termination, Options{}, discardLogger())

	require.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, 1, engine.PrunedContainers)
	assert.Equal(t, 1, engine.PrunedNetworks)
}

func TestTerminationLoop_ContextDoneReturnsNil(t *testing.T) {
	engine := containerengine.NewFakeEngine()
	bus := eventbus.NewBus()
	defer bus.Close()
	orch := newTestOrchestrator(t, engine, bus.Producer())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New()
	err := s.terminationLoop(ctx, func() {}, orch, nil, eventbus.NewTermination(), Options{}, discardLogger())

	require.NoError(t, err)
}

type fakeRenderer struct {
	rendered []eventbus.Event
}

func (f *fakeRenderer) Render(e eventbus.Event) { f.rendered = append(f.rendered, e) }

func TestConsumeBus_ForwardsToRenderer(t *testing.T) {
	bus := eventbus.NewBus()
	defer bus.Close()
	renderer := &fakeRenderer{}

	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.consumeBus(ctx, bus.Events(), discardLogger(), Options{Renderer: renderer})
	}()

	bus.Producer().Log(eventbus.LevelInfo, "hello")
	require.Eventually(t, func() bool { return len(renderer.rendered) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
