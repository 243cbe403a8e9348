package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Run(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs([]string{"-n", "3", "--env-prefix", "OSLISTEN_TEST"})

	require.NoError(t, cmd.Execute())

	s := out.String()
	assert.Contains(t, s, "listener: click #[1]")
	assert.Contains(t, s, "listener: click #[3]")
	assert.Contains(t, s, "first dispatch: click [1]")
	assert.Contains(t, s, "clicks=3 mirrored=3 listeners=0")
	assert.Contains(t, s, `"msg":"firing native events"`)
	assert.Contains(t, s, `"trace_id"`)
}

func TestRootCommand_ConfigFileAndMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listener.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logger:
  encoding: console
  level: debug
telemetry:
  exporter: stdout
`), 0o644))

	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs([]string{"-c", path, "-n", "2", "--metrics", "--env-prefix", "OSLISTEN_TEST"})

	require.NoError(t, cmd.Execute())

	s := out.String()
	assert.Contains(t, s, "clicks=2 mirrored=2 listeners=0")
	assert.Contains(t, s, "metrics provider registered")
	assert.Contains(t, s, "listener_invocations_total", "stdout exporter flushes on shutdown")
}

func TestRootCommand_NoEvents(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs([]string{"-n", "0", "--timeout", "10ms", "--env-prefix", "OSLISTEN_TEST"})

	require.NoError(t, cmd.Execute())

	s := out.String()
	assert.Contains(t, s, "no dispatch before timeout")
	assert.Contains(t, s, "clicks=0 mirrored=0")
	assert.NotContains(t, s, "first dispatch")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs([]string{"--exporter", "otlp", "--env-prefix", "OSLISTEN_TEST"})

	assert.Error(t, cmd.Execute())
}
