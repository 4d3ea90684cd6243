package devnet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hirosystems/stacks-devnet/internal/containerengine"
	"github.com/hirosystems/stacks-devnet/internal/devnet/templates"
)

// prepareService generates the service's on-disk config (step 2 of the
// startup protocol) and builds its ContainerSpec (step 4). It returns
// the spec and the image reference, since image pulls happen between
// generation and creation.
func (o *Orchestrator) prepareService(svc ServiceSpec) (containerengine.ContainerSpec, string, error) {
	switch svc.Kind {
	case ServiceBitcoinNode:
		return o.prepareBitcoinNode()
	case ServiceStacksNode:
		return o.prepareStacksNode()
	case ServicePostgres:
		return o.preparePostgres()
	case ServiceStacksAPI:
		return o.prepareStacksAPI()
	case ServiceStacksExplorer:
		return o.prepareStacksExplorer()
	case ServiceBitcoinExplorer:
		return o.prepareBitcoinExplorer()
	case ServiceSubnetNode:
		return o.prepareSubnetNode()
	case ServiceSubnetAPI:
		return o.prepareSubnetAPI()
	default:
		return containerengine.ContainerSpec{}, "", fmt.Errorf("unknown service kind %s", svc.Kind)
	}
}

func (o *Orchestrator) writeConf(name, content string) error {
	return os.WriteFile(o.confPath(name), []byte(content), 0o644)
}

func (o *Orchestrator) dataDir(service string) string {
	return filepath.Join(o.cfg.WorkingDir, "data", fmt.Sprintf("%d", o.bootIndex), service)
}

func (o *Orchestrator) containerName(service string) string {
	return fmt.Sprintf("%s.%s", service, o.cfg.NetworkName)
}

func (o *Orchestrator) baseLabels(reset bool) map[string]string {
	labels := map[string]string{"project": o.cfg.NetworkName}
	if reset {
		labels["reset"] = "true"
	}
	return labels
}

func (o *Orchestrator) envVarsFor(service string) []string {
	var out []string
	for _, v := range o.cfg.EnvVars[service] {
		out = append(out, v.Key+"="+v.Value)
	}
	return out
}

func (o *Orchestrator) bindConfigDir() string {
	return filepath.Join(o.cfg.WorkingDir, "conf") + ":/devnet/conf"
}

func (o *Orchestrator) maybeStateBind(service string) []string {
	if !o.cfg.Toggles.BindContainersVolumes {
		return nil
	}
	if err := os.MkdirAll(o.dataDir(service), 0o755); err != nil {
		o.logger.Warn("create state dir failed", "service", service, "err", err)
		return nil
	}
	return []string{o.dataDir(service) + ":/devnet/data"}
}

func (o *Orchestrator) prepareBitcoinNode() (containerengine.ContainerSpec, string, error) {
	conf, err := templates.GenerateBitcoinConf(o.cfg)
	if err != nil {
		return containerengine.ContainerSpec{}, "", err
	}
	if err := o.writeConf("bitcoin.conf", conf); err != nil {
		return containerengine.ContainerSpec{}, "", err
	}

	return containerengine.ContainerSpec{
		Image:  o.cfg.Images.BitcoinNode,
		Name:   o.containerName("bitcoin-node"),
		Labels: o.baseLabels(true),
		Env:    o.envVarsFor("bitcoin-node"),
		ExposedPorts: []string{
			fmt.Sprintf("%d/tcp", o.cfg.Ports.BitcoinP2P),
			fmt.Sprintf("%d/tcp", o.cfg.Ports.BitcoinRPC),
		},
		PortBindings: map[string][]containerengine.PortBinding{
			fmt.Sprintf("%d/tcp", o.cfg.Ports.BitcoinP2P): {{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", o.cfg.Ports.BitcoinP2P)}},
			fmt.Sprintf("%d/tcp", o.cfg.Ports.BitcoinRPC): {{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", o.cfg.Ports.BitcoinRPC)}},
		},
		Binds:      append([]string{o.bindConfigDir()}, o.maybeStateBind("bitcoin")...),
		ExtraHosts: []string{"host.docker.internal:host-gateway"},
	}, o.cfg.Images.BitcoinNode, nil
}

func (o *Orchestrator) prepareStacksNode() (containerengine.ContainerSpec, string, error) {
	content, err := templates.GenerateStacksToml(o.cfg, o.accounts)
	if err != nil {
		return containerengine.ContainerSpec{}, "", err
	}
	if err := o.writeConf("Stacks.toml", content); err != nil {
		return containerengine.ContainerSpec{}, "", err
	}

	return containerengine.ContainerSpec{
		Image:  o.cfg.Images.StacksNode,
		Name:   o.containerName("stacks-node"),
		Labels: o.baseLabels(true),
		Env:    o.envVarsFor("stacks-node"),
		ExposedPorts: []string{
			fmt.Sprintf("%d/tcp", o.cfg.Ports.StacksP2P),
			fmt.Sprintf("%d/tcp", o.cfg.Ports.StacksRPC),
		},
		PortBindings: map[string][]containerengine.PortBinding{
			fmt.Sprintf("%d/tcp", o.cfg.Ports.StacksP2P): {{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", o.cfg.Ports.StacksP2P)}},
			fmt.Sprintf("%d/tcp", o.cfg.Ports.StacksRPC): {{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", o.cfg.Ports.StacksRPC)}},
		},
		Binds:      append([]string{o.bindConfigDir()}, o.maybeStateBind("stacks")...),
		ExtraHosts: []string{"host.docker.internal:host-gateway"},
	}, o.cfg.Images.StacksNode, nil
}

func (o *Orchestrator) preparePostgres() (containerengine.ContainerSpec, string, error) {
	return containerengine.ContainerSpec{
		Image:  o.cfg.Images.Postgres,
		Name:   o.containerName("postgres"),
		Labels: o.baseLabels(false),
		Env: []string{
			"POSTGRES_USER=" + o.cfg.Postgres.Username,
			"POSTGRES_PASSWORD=" + o.cfg.Postgres.Password,
			"POSTGRES_DB=" + o.cfg.Postgres.StacksAPIDatabase,
		},
		ExposedPorts: []string{fmt.Sprintf("%d/tcp", o.cfg.Ports.Postgres)},
		PortBindings: map[string][]containerengine.PortBinding{
			fmt.Sprintf("%d/tcp", o.cfg.Ports.Postgres): {{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", o.cfg.Ports.Postgres)}},
		},
		ExtraHosts: []string{"host.docker.internal:host-gateway"},
	}, o.cfg.Images.Postgres, nil
}

func (o *Orchestrator) prepareStacksAPI() (containerengine.ContainerSpec, string, error) {
	return containerengine.ContainerSpec{
		Image:  o.cfg.Images.StacksAPI,
		Name:   o.containerName("stacks-api"),
		Labels: o.baseLabels(false),
		Env: append([]string{
			fmt.Sprintf("PG_DATABASE=%s", o.cfg.Postgres.StacksAPIDatabase),
			fmt.Sprintf("STACKS_CORE_RPC_HOST=stacks-node.%s", o.cfg.NetworkName),
		}, o.envVarsFor("stacks-api")...),
		ExposedPorts: []string{fmt.Sprintf("%d/tcp", o.cfg.Ports.StacksAPI)},
		PortBindings: map[string][]containerengine.PortBinding{
			fmt.Sprintf("%d/tcp", o.cfg.Ports.StacksAPI): {{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", o.cfg.Ports.StacksAPI)}},
		},
		ExtraHosts: []string{"host.docker.internal:host-gateway"},
	}, o.cfg.Images.StacksAPI, nil
}

func (o *Orchestrator) prepareStacksExplorer() (containerengine.ContainerSpec, string, error) {
	return containerengine.ContainerSpec{
		Image:  o.cfg.Images.StacksExplorer,
		Name:   o.containerName("stacks-explorer"),
		Labels: o.baseLabels(false),
		Env:    o.envVarsFor("stacks-explorer"),
		ExposedPorts: []string{fmt.Sprintf("%d/tcp", o.cfg.Ports.StacksExplorer)},
		PortBindings: map[string][]containerengine.PortBinding{
			fmt.Sprintf("%d/tcp", o.cfg.Ports.StacksExplorer): {{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", o.cfg.Ports.StacksExplorer)}},
		},
	}, o.cfg.Images.StacksExplorer, nil
}

func (o *Orchestrator) prepareBitcoinExplorer() (containerengine.ContainerSpec, string, error) {
	return containerengine.ContainerSpec{
		Image:  o.cfg.Images.BitcoinExplorer,
		Name:   o.containerName("bitcoin-explorer"),
		Labels: o.baseLabels(false),
		Env:    o.envVarsFor("bitcoin-explorer"),
		ExposedPorts: []string{fmt.Sprintf("%d/tcp", o.cfg.Ports.BitcoinExplorer)},
		PortBindings: map[string][]containerengine.PortBinding{
			fmt.Sprintf("%d/tcp", o.cfg.Ports.BitcoinExplorer): {{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", o.cfg.Ports.BitcoinExplorer)}},
		},
	}, o.cfg.Images.BitcoinExplorer, nil
}

func (o *Orchestrator) prepareSubnetNode() (containerengine.ContainerSpec, string, error) {
	content, err := templates.GenerateSubnetToml(o.cfg)
	if err != nil {
		return containerengine.ContainerSpec{}, "", err
	}
	if err := o.writeConf("Subnet.toml", content); err != nil {
		return containerengine.ContainerSpec{}, "", err
	}

	return containerengine.ContainerSpec{
		Image:  o.cfg.Images.SubnetNode,
		Name:   o.containerName("subnet-node"),
		Labels: o.baseLabels(true),
		Env:    o.envVarsFor("subnet-node"),
		ExposedPorts: []string{
			fmt.Sprintf("%d/tcp", o.cfg.Ports.SubnetNodeP2P),
			fmt.Sprintf("%d/tcp", o.cfg.Ports.SubnetNodeRPC),
		},
		PortBindings: map[string][]containerengine.PortBinding{
			fmt.Sprintf("%d/tcp", o.cfg.Ports.SubnetNodeP2P): {{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", o.cfg.Ports.SubnetNodeP2P)}},
			fmt.Sprintf("%d/tcp", o.cfg.Ports.SubnetNodeRPC): {{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", o.cfg.Ports.SubnetNodeRPC)}},
		},
		Binds:      append([]string{o.bindConfigDir()}, o.maybeStateBind("subnet")...),
		ExtraHosts: []string{"host.docker.internal:host-gateway"},
	}, o.cfg.Images.SubnetNode, nil
}

func (o *Orchestrator) prepareSubnetAPI() (containerengine.ContainerSpec, string, error) {
	return containerengine.ContainerSpec{
		Image:  o.cfg.Images.SubnetAPI,
		Name:   o.containerName("subnet-api"),
		Labels: o.baseLabels(false),
		Env:    o.envVarsFor("subnet-api"),
		ExposedPorts: []string{fmt.Sprintf("%d/tcp", o.cfg.Ports.SubnetAPI)},
		PortBindings: map[string][]containerengine.PortBinding{
			fmt.Sprintf("%d/tcp", o.cfg.Ports.SubnetAPI): {{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", o.cfg.Ports.SubnetAPI)}},
		},
	}, o.cfg.Images.SubnetAPI, nil
}
