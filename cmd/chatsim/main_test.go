package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bookingFlow = filepath.Join("..", "..", "examples", "flows", "booking.json")
	supportFlow = filepath.Join("..", "..", "examples", "flows", "support.yaml")
	supportDir  = filepath.Join("..", "..", "examples", "support")
)

// execute runs the root command. Flags keep their values between runs, so
// every test passes the flags it depends on.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CHATSIM_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "chatsim version "))
}

func TestValidate_ExampleFlows(t *testing.T) {
	for _, flow := range []string{bookingFlow, supportFlow, supportDir} {
		t.Run(filepath.Base(flow), func(t *testing.T) {
			out, err := execute(t, "", "validate", "--flow", flow, "--entry", "start")
			require.NoError(t, err, out)
			assert.Contains(t, out, "Flow is valid")
			assert.NotContains(t, out, "unreachable")
		})
	}
}

func TestValidate_BrokenLink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, writeFile(path, `[{"Id":"start","Buttons":[{"_id":"go","ButtonType":"NextNode","NextNodeId":"nowhere"}]}]`))

	_, err := execute(t, "", "validate", "--flow", path, "--entry", "start")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nowhere")
}

func TestGraph(t *testing.T) {
	out, err := execute(t, "", "graph", "--flow", bookingFlow, "--entry", "start", "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "confirm")

	out, err = execute(t, "", "graph", "--flow", bookingFlow, "--entry", "start", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Id": "start"`)

	_, err = execute(t, "", "graph", "--flow", bookingFlow, "--entry", "start", "--format", "dot")
	assert.Error(t, err)
}

func TestRun_JSON(t *testing.T) {
	out, err := execute(t, "\"name Ada\"\n", "run", "--flow", bookingFlow, "--entry", "start", "--json", "--session-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, `"node_id":"start"`)
	assert.Contains(t, out, `"node_id":"contact"`)
}

func TestSession_ListInspectRemove(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "", "session", "ls", "--session-dir", dir, "--flow", bookingFlow)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")

	_, err = execute(t, "exit\n", "run", "--flow", bookingFlow, "--entry", "start", "--json", "--session", "dev", "--session-dir", dir)
	require.NoError(t, err)

	out, err = execute(t, "", "session", "ls", "--session-dir", dir, "--flow", bookingFlow)
	require.NoError(t, err)
	assert.Contains(t, out, "- dev")

	out, err = execute(t, "", "session", "inspect", "dev", "--session-dir", dir, "--flow", bookingFlow)
	require.NoError(t, err)
	assert.Contains(t, out, `"current_node_id": "start"`)

	out, err = execute(t, "", "session", "rm", "dev", "--session-dir", dir, "--flow", bookingFlow)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session 'dev'")

	_, err = execute(t, "", "session", "inspect", "dev", "--session-dir", dir, "--flow", bookingFlow)
	assert.Error(t, err)
}

func TestFetchTimeoutMustBePositive(t *testing.T) {
	_, err := execute(t, "", "validate", "--flow", bookingFlow, "--fetch-timeout", "-1s")
	assert.Error(t, err)
	// Reset for later runs sharing the flag set.
	_, _ = execute(t, "", "validate", "--flow", bookingFlow, "--fetch-timeout", "15s")
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
