// Package dockerengine implements containerengine.Engine against a real
// Docker daemon via the official Docker Engine SDK. It is the only
// package in the module that imports github.com/docker/docker/client —
// every other component depends on the containerengine.Engine interface.
package dockerengine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/hirosystems/stacks-devnet/internal/containerengine"
)

// Engine adapts a *client.Client to containerengine.Engine. It never
// logs — callers are responsible for turning OpError into bus events.
type Engine struct {
	cli *client.Client
}

// New attempts the engine's conventional default socket first, falling
// back to $HOME/.docker/run/docker.sock per spec §6.
func New() (*Engine, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, containerengine.NewOpError("connect", containerengine.KindEngineUnavailable, err)
	}

	if _, err := cli.Ping(context.Background()); err != nil {
		fallback := filepath.Join(os.Getenv("HOME"), ".docker", "run", "docker.sock")
		cli2, err2 := client.NewClientWithOpts(
			client.WithHost("unix://"+fallback),
			client.WithAPIVersionNegotiation(),
		)
		if err2 != nil {
			return nil, containerengine.NewOpError("connect", containerengine.KindEngineUnavailable, err)
		}
		if _, err3 := cli2.Ping(context.Background()); err3 != nil {
			return nil, containerengine.NewOpError("connect", containerengine.KindEngineUnavailable, err3)
		}
		cli = cli2
	}

	return &Engine{cli: cli}, nil
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case client.IsErrNotFound(err):
		return containerengine.NewOpError(op, containerengine.KindImageNotFound, err)
	case client.IsErrConnectionFailed(err):
		return containerengine.NewOpError(op, containerengine.KindEngineUnavailable, err)
	default:
		return containerengine.NewOpError(op, containerengine.KindOther, err)
	}
}

func (e *Engine) PullImage(ctx context.Context, ref string) error {
	rc, err := e.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return classify("pull_image", err)
	}
	defer rc.Close()
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return classify("pull_image", err)
	}
	return nil
}

func (e *Engine) CreateNetwork(ctx context.Context, name string, labels map[string]string) (string, error) {
	resp, err := e.cli.NetworkCreate(ctx, name, network.CreateOptions{
		Labels: labels,
	})
	if err != nil {
		return "", classify("create_network", err)
	}
	return resp.ID, nil
}

func (e *Engine) CreateContainer(ctx context.Context, spec containerengine.ContainerSpec) (string, error) {
	exposed := make(nat.PortSet, len(spec.ExposedPorts))
	for _, p := range spec.ExposedPorts {
		exposed[nat.Port(p)] = struct{}{}
	}

	bindings := make(nat.PortMap, len(spec.PortBindings))
	for containerPort, hostBindings := range spec.PortBindings {
		pb := make([]nat.PortBinding, 0, len(hostBindings))
		for _, hb := range hostBindings {
			pb = append(pb, nat.PortBinding{HostIP: hb.HostIP, HostPort: hb.HostPort})
		}
		bindings[nat.Port(containerPort)] = pb
	}

	resp, err := e.cli.ContainerCreate(ctx,
		&container.Config{
			Image:        spec.Image,
			Env:          spec.Env,
			Entrypoint:   spec.Entrypoint,
			Cmd:          spec.Cmd,
			ExposedPorts: exposed,
			Labels:       spec.Labels,
		},
		&container.HostConfig{
			Binds:        spec.Binds,
			PortBindings: bindings,
			ExtraHosts:   spec.ExtraHosts,
		},
		nil,
		nil,
		spec.Name,
	)
	if err != nil {
		if client.IsErrNotFound(err) {
			return "", containerengine.NewOpError("create_container", containerengine.KindImageNotFound, err)
		}
		return "", classify("create_container", err)
	}
	return resp.ID, nil
}

func (e *Engine) StartContainer(ctx context.Context, id string) error {
	if err := e.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return classify("start_container", err)
	}
	return nil
}

func (e *Engine) ConnectNetwork(ctx context.Context, networkName, containerID string) error {
	if err := e.cli.NetworkConnect(ctx, networkName, containerID, nil); err != nil {
		return classify("connect_network", err)
	}
	return nil
}

func (e *Engine) Exec(ctx context.Context, containerID string, argv []string) (int, error) {
	created, err := e.cli.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          argv,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return 0, classify("exec", err)
	}

	attach, err := e.cli.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return 0, classify("exec", err)
	}
	defer attach.Close()
	if _, err := io.Copy(io.Discard, attach.Reader); err != nil {
		return 0, classify("exec", err)
	}

	inspect, err := e.cli.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return 0, classify("exec", err)
	}
	return inspect.ExitCode, nil
}

func (e *Engine) KillContainer(ctx context.Context, id, signal string) error {
	if err := e.cli.ContainerKill(ctx, id, signal); err != nil {
		return classify("kill_container", err)
	}
	return nil
}

func (e *Engine) WaitContainer(ctx context.Context, id string) error {
	statusCh, errCh := e.cli.ContainerWait(ctx, id, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return classify("wait_container", err)
		}
		return nil
	case <-statusCh:
		return nil
	case <-ctx.Done():
		return containerengine.NewOpError("wait_container", containerengine.KindTimeout, ctx.Err())
	}
}

func (e *Engine) RemoveContainer(ctx context.Context, id string) error {
	if err := e.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil {
		return classify("remove_container", err)
	}
	return nil
}

func (e *Engine) ListContainers(ctx context.Context, labelFilter map[string]string) ([]string, error) {
	args := labelFilterArgs(labelFilter)
	containers, err := e.cli.ContainerList(ctx, container.ListOptions{All: true, Filters: args})
	if err != nil {
		return nil, classify("list_containers", err)
	}
	ids := make([]string, 0, len(containers))
	for _, c := range containers {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (e *Engine) PruneContainers(ctx context.Context, labelFilter map[string]string) error {
	if _, err := e.cli.ContainersPrune(ctx, labelFilterArgs(labelFilter)); err != nil {
		return classify("prune_containers", err)
	}
	return nil
}

func (e *Engine) PruneNetworks(ctx context.Context, labelFilter map[string]string) error {
	if _, err := e.cli.NetworksPrune(ctx, labelFilterArgs(labelFilter)); err != nil {
		return classify("prune_networks", err)
	}
	return nil
}

func labelFilterArgs(labelFilter map[string]string) filters.Args {
	args := filters.NewArgs()
	for k, v := range labelFilter {
		args.Add("label", fmt.Sprintf("%s=%s", k, v))
	}
	return args
}

var _ containerengine.Engine = (*Engine)(nil)
