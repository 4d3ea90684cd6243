package clarity

import (
	"encoding/json"
	"fmt"
	"os"
)

// jsonFileLoader is the default production Loader: it decodes a JSON
// array of contracts from deploymentPlanPath. This is deliberately not a
// real Clarity deployment-plan parser (that discovery logic is the
// excluded collaborator spec §1 names) — it exists so start-devnet has a
// working default rather than only a test double.
type jsonFileLoader struct{}

type jsonContract struct {
	Name                string `json:"name"`
	Source              string `json:"source"`
	DeployerAccountName string `json:"deployer_account_name"`
}

func (jsonFileLoader) Load(deploymentPlanPath string) (*Session, error) {
	raw, err := os.ReadFile(deploymentPlanPath)
	if err != nil {
		return nil, fmt.Errorf("clarity: load deployment plan %s: %w", deploymentPlanPath, err)
	}

	var contracts []jsonContract
	if err := json.Unmarshal(raw, &contracts); err != nil {
		return nil, fmt.Errorf("clarity: parse deployment plan %s: %w", deploymentPlanPath, err)
	}

	session := &Session{Contracts: make([]Contract, 0, len(contracts))}
	for _, c := range contracts {
		session.Contracts = append(session.Contracts, Contract{
			Name:                c.Name,
			Source:              c.Source,
			DeployerAccountName: c.DeployerAccountName,
		})
	}
	return session, nil
}

var _ Loader = jsonFileLoader{}
