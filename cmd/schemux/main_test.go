package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passing = `name: drag select
circuit:
  components:
    - {name: g, desc: and, at: [35, 35]}
frames:
  - {mouse: [0, 0], buttons: [left]}
  - {mouse: [10, 10], buttons: [left], expect: {state: SelectArea}}
  - {expect: {state: Up, selected: [g]}}
`

const failing = `name: wrong
frames:
  - {mouse: [0, 0], expect: {state: Pan}}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReplay(t *testing.T) {
	out, err := run(t, "replay", writeFile(t, "ok.yaml", passing))
	require.NoError(t, err)
	assert.Contains(t, out, "ok   drag select (3 frames)")
}

func TestReplayReportsFailures(t *testing.T) {
	out, err := run(t, "replay", writeFile(t, "ok.yaml", passing), writeFile(t, "bad.yaml", failing))
	require.Error(t, err)
	assert.Equal(t, "1 of 2 scripts failed", err.Error())
	assert.Contains(t, out, "FAIL wrong")
	assert.Contains(t, out, "frame 0: state = Up, want Pan")
}

func TestReplayTrace(t *testing.T) {
	out, err := run(t, "replay", "--trace", writeFile(t, "ok.yaml", passing))
	require.NoError(t, err)
	assert.Contains(t, out, "   1  SelectArea")
	assert.Contains(t, out, "hover=g")
}

func TestReplayWithConfig(t *testing.T) {
	cfg := writeFile(t, "cfg.toml", "[ux]\nmove_threshold = 50.0\n")
	script := writeFile(t, "s.yaml", `frames:
  - {mouse: [0, 0], buttons: [left]}
  - {mouse: [10, 10], buttons: [left], expect: {state: Down}}
`)
	_, err := run(t, "--config", cfg, "replay", script)
	require.NoError(t, err)
}

func TestBadConfigFails(t *testing.T) {
	cfg := writeFile(t, "cfg.toml", "[ux\n")
	_, err := run(t, "--config", cfg, "info")
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.png")
	_, err := run(t, "render", writeFile(t, "ok.yaml", passing), "-o", output, "--width", "120", "--height", "90", "--debug")
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestDot(t *testing.T) {
	out, err := run(t, "dot", "--title", "ux")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph UX {")
	assert.Contains(t, out, `"AddComponent" -> "AddingComponent"`)
}

func TestInfo(t *testing.T) {
	out, err := run(t, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Regexp(t, `and\s+AND\s+2\s+1`, out)
	assert.Contains(t, out, "[ux.camera]")
	assert.Contains(t, out, "move_threshold = 5.0")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "schemux dev")
}
