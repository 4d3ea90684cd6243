package clarity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoader_ParsesJSONDeploymentPlan(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.json")
	require.NoError(t, os.WriteFile(planPath, []byte(`[
		{"name": "counter", "source": "(define-data-var x int 0)", "deployer_account_name": "deployer"},
		{"name": "token", "source": "(define-fungible-token foo)", "deployer_account_name": "deployer"}
	]`), 0o644))

	loader := NewDefaultLoader()
	session, err := loader.Load(planPath)
	require.NoError(t, err)
	require.Len(t, session.Contracts, 2)
	assert.Equal(t, "counter", session.Contracts[0].Name)
	assert.Equal(t, "deployer", session.Contracts[1].DeployerAccountName)
}

func TestDefaultLoader_MissingFileErrors(t *testing.T) {
	loader := NewDefaultLoader()
	_, err := loader.Load("/nonexistent/plan.json")
	assert.Error(t, err)
}
