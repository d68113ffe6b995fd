// Package config resolves Mavix's debug feature flags (DEBUG_PRINT_CODE,
// DEBUG_TRACE_EXECUTION) from, in increasing priority: compiled defaults,
// an optional mavix.toml file, and CLI flags.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the two debug feature flags spec.md calls out as
// compile-time flags, made runtime-toggleable here.
type Config struct {
	DebugPrintCode      bool `toml:"debug_print_code"`
	DebugTraceExecution bool `toml:"debug_trace_execution"`
}

// Default returns both flags disabled, matching the spec's stated
// defaults.
func Default() Config {
	return Config{}
}

// LoadFile merges settings from an optional mavix.toml in the current
// directory into base. A missing file is not an error; a malformed one
// is.
func LoadFile(base Config, path string) (Config, error) {
	if path == "" {
		path = "mavix.toml"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}

	if _, err := toml.DecodeFile(path, &base); err != nil {
		return base, err
	}
	return base, nil
}

// ApplyFlags overlays explicitly-set CLI flag values on top of cfg.
// A nil pointer means "flag not passed"; leave cfg's value alone.
func ApplyFlags(cfg Config, printCode, trace *bool) Config {
	if printCode != nil {
		cfg.DebugPrintCode = *printCode
	}
	if trace != nil {
		cfg.DebugTraceExecution = *trace
	}
	return cfg
}
