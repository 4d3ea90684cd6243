package devnet

import (
	"context"

	"github.com/hirosystems/stacks-devnet/internal/eventbus"
)

// cleanupPriorSession enumerates containers labeled project=<network>
// and kills+waits then prunes them, defending against a crashed prior
// run, per spec §4.C "Session cleanup on startup".
func (o *Orchestrator) cleanupPriorSession(ctx context.Context) {
	ids, err := o.engine.ListContainers(ctx, o.projectLabel())
	if err != nil {
		o.logger.Warn("session cleanup: list containers failed", "err", err)
		return
	}
	for _, id := range ids {
		if err := o.engine.KillContainer(ctx, id, "SIGKILL"); err != nil {
			o.logger.Warn("session cleanup: kill failed", "id", id, "err", err)
			continue
		}
		if err := o.engine.WaitContainer(ctx, id); err != nil {
			o.logger.Warn("session cleanup: wait failed", "id", id, "err", err)
		}
	}
	if err := o.engine.PruneContainers(ctx, o.projectLabel()); err != nil {
		o.logger.Warn("session cleanup: prune containers failed", "err", err)
	}
}

// resetServices lists the services recreated (not preserved) across a
// restart, in the order spec §4.C's restart protocol kills them.
var resetServices = []ServiceKind{ServiceStacksNode, ServiceBitcoinNode}

// Restart implements spec §4.C's restart protocol, triggered by a
// `false` message on the termination channel: kill+recreate bitcoin-node
// and stacks-node, preserving every other running service.
func (o *Orchestrator) Restart(ctx context.Context) error {
	for _, kind := range resetServices {
		if h, ok := o.handles[kind]; ok {
			o.bus.Status(displayOrder[kind], string(kind), eventbus.StatusYellow, "restarting")
			if err := o.engine.KillContainer(ctx, h.EngineID, "SIGKILL"); err != nil {
				o.logger.Warn("restart: kill failed", "service", kind, "err", err)
			}
			if err := o.engine.WaitContainer(ctx, h.EngineID); err != nil {
				o.logger.Warn("restart: wait failed", "service", kind, "err", err)
			}
		}
	}

	resetLabels := map[string]string{"project": o.cfg.NetworkName, "reset": "true"}
	if err := o.engine.PruneContainers(ctx, resetLabels); err != nil {
		o.logger.Warn("restart: prune failed", "err", err)
	}

	o.bootIndex++
	if err := o.prepareWorkingDir(); err != nil {
		return err
	}

	boot, _ := BootOrder(o.serviceEnabled)
	for _, svc := range boot {
		if svc.Kind != ServiceBitcoinNode && svc.Kind != ServiceStacksNode {
			continue
		}
		if err := o.bootService(ctx, svc); err != nil {
			return err
		}
	}
	return nil
}

// teardownOrder is the reverse-dependency order spec §4.C's teardown
// protocol specifies: explorers, bitcoin-node, api, postgres,
// stacks-node, subnet-node, subnet-api.
var teardownOrder = []ServiceKind{
	ServiceStacksExplorer, ServiceBitcoinExplorer,
	ServiceBitcoinNode,
	ServiceStacksAPI,
	ServicePostgres,
	ServiceStacksNode,
	ServiceSubnetNode,
	ServiceSubnetAPI,
}

// Teardown implements spec §4.C's teardown protocol, best-effort at
// every step: failures are logged, never raised.
func (o *Orchestrator) Teardown(ctx context.Context) {
	for _, kind := range teardownOrder {
		h, ok := o.handles[kind]
		if !ok {
			continue
		}
		if err := o.engine.KillContainer(ctx, h.EngineID, "SIGKILL"); err != nil {
			o.logger.Warn("teardown: kill failed", "service", kind, "err", err)
		}
		if err := o.engine.RemoveContainer(ctx, h.EngineID); err != nil {
			o.logger.Warn("teardown: remove failed", "service", kind, "err", err)
		}
		delete(o.handles, kind)
	}

	if err := o.engine.PruneContainers(ctx, o.projectLabel()); err != nil {
		o.logger.Warn("teardown: prune containers failed", "err", err)
	}
	if err := o.engine.PruneNetworks(ctx, o.projectLabel()); err != nil {
		o.logger.Warn("teardown: prune networks failed", "err", err)
	}

	o.bus.Log(eventbus.LevelInfo, "devnet artifacts available at %s", o.cfg.WorkingDir)
}
