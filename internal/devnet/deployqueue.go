package devnet

import (
	"fmt"

	"github.com/hirosystems/stacks-devnet/internal/accounts"
	"github.com/hirosystems/stacks-devnet/internal/clarity"
	"github.com/hirosystems/stacks-devnet/internal/observer"
)

// loadDeployQueue loads the Clarity session at o.deploymentPlanPath and
// builds the observer's initial deploy queue, resolving each contract's
// deployer account against the devnet's derived account set. Per spec
// §4.C, the orchestrator's only contribution here is building this
// queue; submission itself is the observer's job.
func (o *Orchestrator) loadDeployQueue() (*clarity.Session, []observer.QueueItem, error) {
	if o.loader == nil || o.deploymentPlanPath == "" {
		return nil, nil, nil
	}
	session, err := o.loader.Load(o.deploymentPlanPath)
	if err != nil {
		return nil, nil, err
	}
	items, err := o.BuildDeployQueue(session)
	if err != nil {
		return nil, nil, err
	}
	return session, items, nil
}

// BuildDeployQueue resolves each contract's deployer account name
// against the derived account set, in the session's topological order.
func (o *Orchestrator) BuildDeployQueue(session *clarity.Session) ([]observer.QueueItem, error) {
	if session == nil {
		return nil, nil
	}
	byName := make(map[string]accounts.Account, len(o.accounts))
	for _, a := range o.accounts {
		byName[a.Name] = a
	}

	items := make([]observer.QueueItem, 0, len(session.Contracts))
	for _, c := range session.Contracts {
		deployer, ok := byName[c.DeployerAccountName]
		if !ok {
			return nil, fmt.Errorf("deploy queue: contract %s references unknown deployer account %s", c.Name, c.DeployerAccountName)
		}
		items = append(items, observer.QueueItem{Contract: c, Deployer: deployer})
	}
	return items, nil
}
