package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slideScript = `
name: slide
fps: 10
values:
  x: 0
derived:
  - name: opacity
    from: x
    inputRange: [0, 10]
    outputRange: [0, 1]
    extrapolate: clamp
animation:
  type: sequence
  steps:
    - type: timing
      value: x
      to: 10
      duration: 500ms
      easing: linear
    - type: delay
      duration: 200ms
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestRunPrintsFramesAndSummary(t *testing.T) {
	path := writeScript(t, slideScript)
	out := runCLI(t, "run", path, "--every", "1", "--json=false", "--remote=false", "--metrics=false", "--log-level", "error")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 5)
	assert.Equal(t, "finished=true frames="+strconv.Itoa(len(lines)-1), lines[len(lines)-1])
	assert.Contains(t, lines[len(lines)-2], "x=10.000")
	assert.Contains(t, lines[len(lines)-2], "opacity=1.000")
}

func TestRunJSON(t *testing.T) {
	path := writeScript(t, slideScript)
	out := runCLI(t, "run", path, "--every", "0", "--json", "--remote=false", "--metrics=false", "--log-level", "error")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1, "--every 0 prints only the summary")
	var summary struct {
		Finished bool `json:"finished"`
		Frames   int  `json:"frames"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &summary))
	assert.True(t, summary.Finished)
	assert.GreaterOrEqual(t, summary.Frames, 7)
}

func TestRunRemoteWithMetrics(t *testing.T) {
	path := writeScript(t, slideScript)
	out := runCLI(t, "run", path, "--every", "0", "--json=false", "--remote", "--metrics", "--log-level", "error")

	assert.Contains(t, out, "finished=true")
	assert.Contains(t, out, "sway_bridge_operations_total{op=createNode}")
	assert.Contains(t, out, "sway_bridge_operations_total{op=startAnimating} 1")
}

func TestRunRejectsBadScript(t *testing.T) {
	path := writeScript(t, "values: {}\n")
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"run", path})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no values")
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sway.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("batching: true\ndebounce: true\nlogLevel: error\n"), 0o644))
	path := writeScript(t, slideScript)

	out := runCLI(t, "run", path, "--config", cfgPath, "--every", "0", "--json=false", "--remote", "--metrics", "--log-level", "")
	assert.Contains(t, out, "finished=true")
	assert.Contains(t, out, "sway_bridge_flushes_total")
}
