package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds every setting lala reads at startup.
type Config struct {
	Editor   EditorConfig   `toml:"editor" yaml:"editor"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Autosave AutosaveConfig `toml:"autosave" yaml:"autosave"`
	Watch    WatchConfig    `toml:"watch" yaml:"watch"`
}

// EditorConfig configures documents.
type EditorConfig struct {
	// MaxUndoEntries bounds each document's undo history.
	MaxUndoEntries int `toml:"maxUndoEntries" yaml:"maxUndoEntries"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `toml:"level" yaml:"level"`
}

// AutosaveConfig configures periodic saving of modified documents.
type AutosaveConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Interval Duration `toml:"interval" yaml:"interval"`
}

// WatchConfig configures detection of changes made to open files by
// other programs.
type WatchConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`

	// Debounce coalesces bursts of file system events.
	Debounce Duration `toml:"debounce" yaml:"debounce"`

	// BufferSize is how many change events may queue before further
	// events are dropped.
	BufferSize int `toml:"bufferSize" yaml:"bufferSize"`
}

// Default values.
const (
	DefaultMaxUndoEntries   = 1000
	DefaultLogLevel         = "info"
	DefaultAutosaveInterval = 30 * time.Second
	DefaultWatchDebounce    = 100 * time.Millisecond
	DefaultWatchBufferSize  = 64

	// MinAutosaveInterval is the shortest accepted autosave interval.
	MinAutosaveInterval = time.Second
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			MaxUndoEntries: DefaultMaxUndoEntries,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
		Autosave: AutosaveConfig{
			Enabled:  false,
			Interval: Duration(DefaultAutosaveInterval),
		},
		Watch: WatchConfig{
			Enabled:    true,
			Debounce:   Duration(DefaultWatchDebounce),
			BufferSize: DefaultWatchBufferSize,
		},
	}
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks that every setting holds a usable value.
// The first problem found is returned as a *ValidationError.
func (c *Config) Validate() error {
	if c.Editor.MaxUndoEntries <= 0 {
		return &ValidationError{
			Path:    "editor.maxUndoEntries",
			Message: "must be positive",
			Value:   c.Editor.MaxUndoEntries,
		}
	}

	level := strings.ToLower(c.Logging.Level)
	valid := false
	for _, l := range logLevels {
		if level == l {
			valid = true
			break
		}
	}
	if !valid {
		return &ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %s", strings.Join(logLevels, ", ")),
			Value:   c.Logging.Level,
		}
	}

	if c.Autosave.Enabled && c.Autosave.Interval.Std() < MinAutosaveInterval {
		return &ValidationError{
			Path:    "autosave.interval",
			Message: fmt.Sprintf("must be at least %s", MinAutosaveInterval),
			Value:   c.Autosave.Interval,
		}
	}

	if c.Watch.Debounce < 0 {
		return &ValidationError{
			Path:    "watch.debounce",
			Message: "must not be negative",
			Value:   c.Watch.Debounce,
		}
	}
	if c.Watch.BufferSize <= 0 {
		return &ValidationError{
			Path:    "watch.bufferSize",
			Message: "must be positive",
			Value:   c.Watch.BufferSize,
		}
	}

	return nil
}

// Duration is a time.Duration written as a string such as "30s" in
// configuration files.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
