// Package containerengine is the thin capability layer over a container
// runtime described in spec §4.B. Every container operation the rest of
// the module needs goes through the Engine interface so exactly one
// package depends on the concrete engine client.
package containerengine

import "context"

// PortBinding maps a container port to a host-side listener.
type PortBinding struct {
	HostIP   string
	HostPort string
}

// ContainerSpec is the full set of inputs needed to create a container.
type ContainerSpec struct {
	Image        string
	Name         string
	Labels       map[string]string
	Env          []string
	Entrypoint   []string
	Cmd          []string
	ExposedPorts []string // "8080/tcp"
	// PortBindings is keyed by "<container_port>/<proto>", matching
	// ExposedPorts entries.
	PortBindings map[string][]PortBinding
	Binds        []string // "/host/path:/container/path[:ro]"
	ExtraHosts   []string // "host.docker.internal:host-gateway"
}

// Engine is the capability surface the rest of the module depends on.
// Every method is async (ctx-bound) and fallible; failures are always an
// *OpError so callers can classify without type-switching on the
// underlying client's error types.
type Engine interface {
	PullImage(ctx context.Context, ref string) error
	CreateNetwork(ctx context.Context, name string, labels map[string]string) (string, error)
	CreateContainer(ctx context.Context, spec ContainerSpec) (string, error)
	StartContainer(ctx context.Context, id string) error
	ConnectNetwork(ctx context.Context, networkName, containerID string) error
	Exec(ctx context.Context, containerID string, argv []string) (exitStatus int, err error)
	KillContainer(ctx context.Context, id, signal string) error
	WaitContainer(ctx context.Context, id string) error
	RemoveContainer(ctx context.Context, id string) error
	ListContainers(ctx context.Context, labelFilter map[string]string) ([]string, error)
	PruneContainers(ctx context.Context, labelFilter map[string]string) error
	PruneNetworks(ctx context.Context, labelFilter map[string]string) error
}
