package containerengine

import (
	"context"
	"fmt"
	"sync"
)

// FakeEngine is a test double recording its container, network, and
// prune calls (PullImage and Exec are not recorded), for devnet/observer
// tests that assert on boot ordering, labels, and teardown completeness
// (spec §8 testable properties 1-3) without a real container runtime.
type FakeEngine struct {
	mu sync.Mutex

	nextID int

	CreatedContainers []ContainerSpec
	CreateOrder       []string // names, in create_container call order
	Started           map[string]bool
	Networks          []string
	Connected         map[string][]string // container id -> networks
	Killed            []string
	Waited            []string
	Removed           []string
	PrunedContainers  int
	PrunedNetworks    int

	containers map[string]bool // id -> alive (not removed)

	PullErr   error
	CreateErr error
}

func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		Started:    make(map[string]bool),
		Connected:  make(map[string][]string),
		containers: make(map[string]bool),
	}
}

func (f *FakeEngine) PullImage(ctx context.Context, ref string) error {
	return f.PullErr
}

func (f *FakeEngine) CreateNetwork(ctx context.Context, name string, labels map[string]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Networks = append(f.Networks, name)
	return "net-" + name, nil
}

func (f *FakeEngine) CreateContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("container-%d", f.nextID)
	f.CreatedContainers = append(f.CreatedContainers, spec)
	f.CreateOrder = append(f.CreateOrder, spec.Name)
	f.containers[id] = true
	return id, nil
}

func (f *FakeEngine) StartContainer(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Started[id] = true
	return nil
}

func (f *FakeEngine) ConnectNetwork(ctx context.Context, networkName, containerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Connected[containerID] = append(f.Connected[containerID], networkName)
	return nil
}

func (f *FakeEngine) Exec(ctx context.Context, containerID string, argv []string) (int, error) {
	return 0, nil
}

func (f *FakeEngine) KillContainer(ctx context.Context, id, signal string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Killed = append(f.Killed, id)
	return nil
}

func (f *FakeEngine) WaitContainer(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Waited = append(f.Waited, id)
	return nil
}

func (f *FakeEngine) RemoveContainer(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Removed = append(f.Removed, id)
	delete(f.containers, id)
	return nil
}

func (f *FakeEngine) ListContainers(ctx context.Context, labelFilter map[string]string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.containers))
	for id := range f.containers {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *FakeEngine) PruneContainers(ctx context.Context, labelFilter map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PrunedContainers++
	return nil
}

func (f *FakeEngine) PruneNetworks(ctx context.Context, labelFilter map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PrunedNetworks++
	return nil
}

var _ Engine = (*FakeEngine)(nil)
