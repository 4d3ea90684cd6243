package devnet

// ServiceKind names one of the eight services the orchestrator can boot.
type ServiceKind string

const (
	ServiceBitcoinNode     ServiceKind = "bitcoin-node"
	ServicePostgres        ServiceKind = "postgres"
	ServiceStacksAPI       ServiceKind = "stacks-api"
	ServiceSubnetNode      ServiceKind = "subnet-node"
	ServiceSubnetAPI       ServiceKind = "subnet-api"
	ServiceStacksNode      ServiceKind = "stacks-node"
	ServiceStacksExplorer  ServiceKind = "stacks-explorer"
	ServiceBitcoinExplorer ServiceKind = "bitcoin-explorer"
)

// displayOrder is the small stable integer spec §4.C attaches to each
// service's status events; implicit services (postgres) carry no
// display order of their own.
var displayOrder = map[ServiceKind]int{
	ServiceBitcoinNode:     0,
	ServiceStacksNode:      1,
	ServiceStacksAPI:       2,
	ServiceStacksExplorer:  3,
	ServiceBitcoinExplorer: 4,
	ServiceSubnetNode:      5,
	ServiceSubnetAPI:       6,
}

// ServiceSpec is one row of the boot-order table: the service's kind,
// display name, display order, and whether the restart protocol
// recreates it. Enablement is decided by the predicate passed to
// BootOrder, and the container spec is built by
// Orchestrator.prepareService.
type ServiceSpec struct {
	Kind        ServiceKind
	DisplayName string
	DisplayOrder int
	// reset marks containers recreated (not preserved) by the restart
	// protocol: bitcoin-node, stacks-node, subnet-node.
	Reset bool
}

// BootOrder returns the 8-slot service table in boot sequence, filtered
// to the services this Config actually enables. Disabled services are
// returned separately so the caller can still emit their "disabled"
// status event without booting them.
func BootOrder(enabled func(ServiceKind) bool) (boot []ServiceSpec, skipped []ServiceSpec) {
	all := []ServiceSpec{
		{Kind: ServiceBitcoinNode, DisplayName: "bitcoin-node", DisplayOrder: displayOrder[ServiceBitcoinNode], Reset: true},
		{Kind: ServicePostgres, DisplayName: "postgres", DisplayOrder: -1},
		{Kind: ServiceStacksAPI, DisplayName: "stacks-api", DisplayOrder: displayOrder[ServiceStacksAPI]},
		{Kind: ServiceSubnetNode, DisplayName: "subnet-node", DisplayOrder: displayOrder[ServiceSubnetNode], Reset: true},
		{Kind: ServiceSubnetAPI, DisplayName: "subnet-api", DisplayOrder: displayOrder[ServiceSubnetAPI]},
		{Kind: ServiceStacksNode, DisplayName: "stacks-node", DisplayOrder: displayOrder[ServiceStacksNode], Reset: true},
		{Kind: ServiceStacksExplorer, DisplayName: "stacks-explorer", DisplayOrder: displayOrder[ServiceStacksExplorer]},
		{Kind: ServiceBitcoinExplorer, DisplayName: "bitcoin-explorer", DisplayOrder: displayOrder[ServiceBitcoinExplorer]},
	}

	for _, svc := range all {
		if svc.Kind == ServiceBitcoinNode || svc.Kind == ServiceStacksNode {
			boot = append(boot, svc) // always required
			continue
		}
		if enabled(svc.Kind) {
			boot = append(boot, svc)
		} else {
			skipped = append(skipped, svc)
		}
	}
	return boot, skipped
}
