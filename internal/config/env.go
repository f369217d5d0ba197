package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LookupFunc retrieves the value of an environment variable, reporting
// whether it was set. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Environment variables that override file settings.
const (
	EnvLogLevel         = "LALA_LOG_LEVEL"
	EnvMaxUndo          = "LALA_MAX_UNDO"
	EnvAutosave         = "LALA_AUTOSAVE"
	EnvAutosaveInterval = "LALA_AUTOSAVE_INTERVAL"
	EnvWatch            = "LALA_WATCH"
)

// ApplyEnv overlays cfg with the LALA_* variables visible through lookup.
// A variable holding a value of the wrong type is reported as a
// *ValidationError naming the variable.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}

	if v, ok := lookup(EnvMaxUndo); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return envError(EnvMaxUndo, "expected an integer", v)
		}
		cfg.Editor.MaxUndoEntries = n
	}

	if v, ok := lookup(EnvAutosave); ok {
		b, err := parseBool(v)
		if err != nil {
			return envError(EnvAutosave, err.Error(), v)
		}
		cfg.Autosave.Enabled = b
	}

	if v, ok := lookup(EnvAutosaveInterval); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return envError(EnvAutosaveInterval, "expected a duration such as 30s", v)
		}
		cfg.Autosave.Interval = Duration(d)
	}

	if v, ok := lookup(EnvWatch); ok {
		b, err := parseBool(v)
		if err != nil {
			return envError(EnvWatch, err.Error(), v)
		}
		cfg.Watch.Enabled = b
	}

	return nil
}

// parseBool accepts the spellings people commonly put in environment
// variables.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("expected a boolean")
}

func envError(name, msg, value string) error {
	return &ValidationError{Path: "$" + name, Message: msg, Value: value}
}
