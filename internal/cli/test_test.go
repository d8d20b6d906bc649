package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var harnessScenarios = filepath.Join("..", "harness", "testdata", "scenarios")

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), t.TempDir())
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Data.Total)
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), harnessScenarios)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 7, resp.Data.Total)
	assert.Equal(t, 7, resp.Data.Passed)
	assert.Equal(t, 0, resp.Data.Failed)
}

func TestTestCommandFilter(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), harnessScenarios, "--filter", "priors*")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ priors_only")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandUpdateAndCompare(t *testing.T) {
	goldenDir := t.TempDir()

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}),
		harnessScenarios, "--filter", "example", "--golden-dir", goldenDir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ example (golden updated)")

	written, err := os.ReadFile(filepath.Join(goldenDir, "example.golden"))
	require.NoError(t, err)
	committed, err := os.ReadFile(filepath.Join("..", "harness", "testdata", "golden", "example.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(committed), string(written))

	_, err = execute(t, NewTestCommand(&RootOptions{Format: "text"}),
		harnessScenarios, "--filter", "example", "--golden-dir", goldenDir)
	require.NoError(t, err)
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	goldenDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "example.golden"), []byte("{}"), 0644))

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}),
		harnessScenarios, "--filter", "example", "--golden-dir", goldenDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "golden file mismatch")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("name: x"), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.yaml"), []byte("name: x"), 0644))

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 3)

	files, err = findScenarioFiles(dir, "a*")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.yaml", filepath.Base(files[0]))

	_, err = findScenarioFiles(dir, "[")
	require.Error(t, err)
}
