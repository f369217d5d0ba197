package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/lala/internal/vfs"
)

func mapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Editor.MaxUndoEntries != DefaultMaxUndoEntries {
		t.Errorf("MaxUndoEntries = %d", cfg.Editor.MaxUndoEntries)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if cfg.Autosave.Enabled || cfg.Autosave.Interval.Std() != 30*time.Second {
		t.Errorf("Autosave = %+v", cfg.Autosave)
	}
	if !cfg.Watch.Enabled {
		t.Error("watching should be on by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFS_TOML(t *testing.T) {
	mem := vfs.NewMemFS()
	_ = mem.AddFile("/lala.toml", `
[editor]
maxUndoEntries = 50

[logging]
level = "debug"

[autosave]
enabled = true
interval = "2m"
`)

	cfg, err := LoadFS(mem, "/lala.toml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.MaxUndoEntries != 50 {
		t.Errorf("MaxUndoEntries = %d", cfg.Editor.MaxUndoEntries)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if !cfg.Autosave.Enabled || cfg.Autosave.Interval.Std() != 2*time.Minute {
		t.Errorf("Autosave = %+v", cfg.Autosave)
	}
	if cfg.Watch.Debounce.Std() != DefaultWatchDebounce || cfg.Watch.BufferSize != DefaultWatchBufferSize {
		t.Error("settings absent from the file should keep their defaults")
	}
}

func TestLoadFS_YAML(t *testing.T) {
	mem := vfs.NewMemFS()
	_ = mem.AddFile("/lala.yaml", `
editor:
  maxUndoEntries: 20
watch:
  enabled: false
  debounce: 250ms
  bufferSize: 16
`)

	cfg, err := LoadFS(mem, "/lala.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.MaxUndoEntries != 20 {
		t.Errorf("MaxUndoEntries = %d", cfg.Editor.MaxUndoEntries)
	}
	if cfg.Watch.Enabled || cfg.Watch.Debounce.Std() != 250*time.Millisecond || cfg.Watch.BufferSize != 16 {
		t.Errorf("Watch = %+v", cfg.Watch)
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestLoadFS_EmptyYAML(t *testing.T) {
	mem := vfs.NewMemFS()
	_ = mem.AddFile("/empty.yml", "")

	cfg, err := LoadFS(mem, "/empty.yml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.MaxUndoEntries != DefaultMaxUndoEntries {
		t.Error("empty file should yield defaults")
	}
}

func TestLoadFS_MissingFile(t *testing.T) {
	cfg, err := LoadFS(vfs.NewMemFS(), "/nope.toml")
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Editor.MaxUndoEntries != DefaultMaxUndoEntries {
		t.Error("missing file should yield defaults")
	}

	if _, err := LoadFS(vfs.NewMemFS(), ""); err != nil {
		t.Errorf("empty path: %v", err)
	}
}

func TestLoadFS_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
	}{
		{"toml syntax", "/bad.toml", "[editor\nmaxUndoEntries = 1"},
		{"toml unknown key", "/bad.toml", "[editor]\ntabSize = 4"},
		{"toml bad duration", "/bad.toml", "[autosave]\ninterval = \"soon\""},
		{"yaml syntax", "/bad.yaml", "editor:\n  maxUndoEntries: [1,\n"},
		{"yaml unknown key", "/bad.yaml", "editor:\n  tabSize: 4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := vfs.NewMemFS()
			_ = mem.AddFile(tt.path, tt.content)

			_, err := LoadFS(mem, tt.path)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if perr.Path != tt.path {
				t.Errorf("Path = %q", perr.Path)
			}
			if perr.Unwrap() == nil {
				t.Error("ParseError should wrap the decoder error")
			}
		})
	}
}

func TestLoadFS_UnknownKeyPosition(t *testing.T) {
	mem := vfs.NewMemFS()
	_ = mem.AddFile("/c.toml", "[editor]\nmaxUndoEntries = 5\ntabSize = 4\n")

	_, err := LoadFS(mem, "/c.toml")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v", err)
	}
	if perr.Line != 3 {
		t.Errorf("Line = %d, want 3", perr.Line)
	}
	if !strings.Contains(perr.Message, "tabSize") {
		t.Errorf("Message = %q", perr.Message)
	}
}

func TestLoadFS_UnsupportedFormat(t *testing.T) {
	mem := vfs.NewMemFS()
	_ = mem.AddFile("/lala.json", "{}")

	if _, err := LoadFS(mem, "/lala.json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadFS_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvLogLevel, "WARN")

	mem := vfs.NewMemFS()
	_ = mem.AddFile("/lala.toml", "[logging]\nlevel = \"debug\"\n")

	cfg, err := LoadFS(mem, "/lala.toml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadFS_Validates(t *testing.T) {
	mem := vfs.NewMemFS()
	_ = mem.AddFile("/lala.toml", "[editor]\nmaxUndoEntries = 0\n")

	_, err := LoadFS(mem, "/lala.toml")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "editor.maxUndoEntries" {
		t.Errorf("err = %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(cfg, mapLookup(map[string]string{
		EnvMaxUndo:          " 42 ",
		EnvAutosave:         "yes",
		EnvAutosaveInterval: "90s",
		EnvWatch:            "off",
	}))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Editor.MaxUndoEntries != 42 {
		t.Errorf("MaxUndoEntries = %d", cfg.Editor.MaxUndoEntries)
	}
	if !cfg.Autosave.Enabled || cfg.Autosave.Interval.Std() != 90*time.Second {
		t.Errorf("Autosave = %+v", cfg.Autosave)
	}
	if cfg.Watch.Enabled {
		t.Error("LALA_WATCH=off should disable watching")
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Error("unset variables should not change settings")
	}
}

func TestApplyEnv_BadValues(t *testing.T) {
	tests := map[string]string{
		EnvMaxUndo:          "many",
		EnvAutosave:         "perhaps",
		EnvAutosaveInterval: "10",
		EnvWatch:            "2",
	}

	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			err := ApplyEnv(Default(), mapLookup(map[string]string{name: value}))
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != "$"+name {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"negative undo", func(c *Config) { c.Editor.MaxUndoEntries = -1 }, "editor.maxUndoEntries"},
		{"bad level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
		{"short autosave", func(c *Config) {
			c.Autosave.Enabled = true
			c.Autosave.Interval = Duration(10 * time.Millisecond)
		}, "autosave.interval"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = Duration(-time.Second) }, "watch.debounce"},
		{"zero watch buffer", func(c *Config) { c.Watch.BufferSize = 0 }, "watch.bufferSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != tt.path {
				t.Fatalf("err = %v, want path %s", err, tt.path)
			}
			if !errors.Is(err, ErrValidationFailed) {
				t.Error("ValidationError should match ErrValidationFailed")
			}
		})
	}

	cfg := Default()
	cfg.Autosave.Interval = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("interval is irrelevant while autosave is off: %v", err)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatal(err)
	}
	if d.Std() != 90*time.Second {
		t.Errorf("d = %v", d)
	}
	text, _ := d.MarshalText()
	if string(text) != "1m30s" {
		t.Errorf("MarshalText = %q", text)
	}
	if err := d.UnmarshalText([]byte("later")); err == nil {
		t.Error("invalid duration should fail")
	}
}
