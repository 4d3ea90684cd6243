// Package clarity declares the boundary to a Clarity deployment-plan
// loader. Parsing real Clarity deployment plans and contract source is
// explicitly out of scope (spec §1 non-goal); the devnet ships a
// JSON contract-list loader as its default (see NewDefaultLoader) and a
// hand-rolled StaticLoader for tests (see loader_fake.go).
package clarity

// Contract is a single Clarity contract named in a deployment plan.
type Contract struct {
	Name                string
	Source              string
	DeployerAccountName string
}

// Session is the ordered set of contracts a deployment plan describes,
// already topologically sorted so the orchestrator can submit publish
// transactions in dependency order.
type Session struct {
	Contracts []Contract
}

// Loader reads a deployment plan file and produces a Session.
type Loader interface {
	Load(deploymentPlanPath string) (*Session, error)
}

// NewDefaultLoader returns the production Loader stacks-devnet ships
// with: it reads a JSON-encoded list of contracts, already in
// topological order, rather than a real Clarity deployment plan — real
// deployment-plan discovery (resolving a Clarity project's dependency
// graph) is the excluded collaborator spec §1 names; this gives the
// orchestrator something concrete to call when no such collaborator is
// wired in.
func NewDefaultLoader() Loader { return jsonFileLoader{} }
