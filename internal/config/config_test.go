package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingIsNotError(t *testing.T) {
	cfg, err := LoadFile(Default(), filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadFileMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mavix.toml")
	require.NoError(t, os.WriteFile(path, []byte("debug_trace_execution = true\n"), 0o644))

	cfg, err := LoadFile(Default(), path)
	require.NoError(t, err)
	require.True(t, cfg.DebugTraceExecution)
	require.False(t, cfg.DebugPrintCode)
}

func TestApplyFlagsOverridesFile(t *testing.T) {
	cfg := Config{DebugTraceExecution: true}
	trace := false
	cfg = ApplyFlags(cfg, nil, &trace)
	require.False(t, cfg.DebugTraceExecution)
}
