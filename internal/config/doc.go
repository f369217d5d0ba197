// Package config provides the configuration system for lala.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A configuration file, TOML or YAML by extension
//  3. LALA_* environment variables
//
// Command-line flags are applied on top by cmd/lala.
//
// # Basic Usage
//
//	cfg, err := config.Load("lala.toml")
//	if err != nil {
//	    return err
//	}
//	maxUndo := cfg.Editor.MaxUndoEntries
//
// A TOML file looks like:
//
//	[editor]
//	maxUndoEntries = 500
//
//	[logging]
//	level = "debug"
//
//	[autosave]
//	enabled = true
//	interval = "1m"
//
//	[watch]
//	enabled = true
//	debounce = "200ms"
//
// YAML files use the same keys.
package config
