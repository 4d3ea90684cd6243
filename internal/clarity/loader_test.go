package clarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticLoader_ReturnsConfiguredSession(t *testing.T) {
	session := &Session{Contracts: []Contract{
		{Name: "counter", Source: "(define-data-var x int 0)", DeployerAccountName: "deployer"},
	}}
	loader := NewStaticLoader(session)

	got, err := loader.Load("/tmp/plan.yaml")
	require.NoError(t, err)
	assert.Same(t, session, got)
}

func TestStaticLoader_NotFoundForSimulatesMissingPlan(t *testing.T) {
	loader := NewStaticLoader(&Session{})
	loader.NotFoundFor = "/tmp/missing.yaml"

	_, err := loader.Load("/tmp/missing.yaml")
	assert.Error(t, err)
}
