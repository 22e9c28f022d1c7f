package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// isolate points HOME at an empty directory and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvPresets, "")
	return home
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if !reflect.DeepEqual(cfg.Timer.Presets, []int{20, 25, 30, 45, 60}) {
		t.Errorf("Presets = %v", cfg.Timer.Presets)
	}
	if cfg.Timer.DefaultPreset != 20 {
		t.Errorf("DefaultPreset = %d, want 20", cfg.Timer.DefaultPreset)
	}
	if cfg.Timer.TickInterval != time.Second {
		t.Errorf("TickInterval = %v, want 1s", cfg.Timer.TickInterval)
	}
	if cfg.Storage.Key != "pomodoro_sessions" {
		t.Errorf("Key = %s, want pomodoro_sessions", cfg.Storage.Key)
	}
	if filepath.Base(cfg.Storage.DBPath) != "sessions.db" {
		t.Errorf("DBPath = %s", cfg.Storage.DBPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid default config", mutate: func(c *Config) {}},
		{name: "no presets", mutate: func(c *Config) { c.Timer.Presets = nil }, wantErr: ErrNoPresets},
		{name: "zero preset", mutate: func(c *Config) { c.Timer.Presets = []int{20, 0} }, wantErr: ErrInvalidPreset},
		{name: "duplicate preset", mutate: func(c *Config) { c.Timer.Presets = []int{20, 20} }, wantErr: ErrDuplicatePreset},
		{name: "default not listed", mutate: func(c *Config) { c.Timer.DefaultPreset = 15 }, wantErr: ErrInvalidDefaultPreset},
		{name: "zero tick", mutate: func(c *Config) { c.Timer.TickInterval = 0 }, wantErr: ErrInvalidTickInterval},
		{name: "unknown alarm mode", mutate: func(c *Config) { c.Alarm.Mode = "siren" }, wantErr: ErrInvalidAlarmMode},
		{
			name: "command without command",
			mutate: func(c *Config) {
				c.Alarm.Mode = "command"
				c.Alarm.Command = ""
			},
			wantErr: ErrMissingAlarmCommand,
		},
		{
			name: "disabled command alarm",
			mutate: func(c *Config) {
				c.Alarm.Enabled = false
				c.Alarm.Mode = "command"
			},
		},
		{name: "unknown display format", mutate: func(c *Config) { c.Display.DefaultFormat = "live" }, wantErr: ErrInvalidDisplayFormat},
		{name: "empty db path", mutate: func(c *Config) { c.Storage.DBPath = "" }, wantErr: ErrEmptyDBPath},
		{name: "empty key", mutate: func(c *Config) { c.Storage.Key = "" }, wantErr: ErrEmptyStorageKey},
		{name: "zero timeout", mutate: func(c *Config) { c.Storage.Timeout = 0 }, wantErr: ErrInvalidStorageTimeout},
		{name: "invalid log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: ErrInvalidLogLevel},
		{name: "invalid log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoaderLoad(t *testing.T) {
	isolate(t)
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "full config",
			content: `timer:
  presets: [15, 50]
  default_preset: 50
  tick_interval: 500ms
alarm:
  enabled: true
  mode: command
  command: paplay /usr/share/sounds/bell.oga
display:
  default_format: simple
  color_enabled: false
storage:
  db_path: /tmp/focus.db
  key: sessions
  timeout: 3s
logging:
  level: debug
  output: stdout
  format: json
`,
			check: func(t *testing.T, cfg *Config) {
				if !reflect.DeepEqual(cfg.Timer.Presets, []int{15, 50}) {
					t.Errorf("Presets = %v, want [15 50]", cfg.Timer.Presets)
				}
				if cfg.Timer.TickInterval != 500*time.Millisecond {
					t.Errorf("TickInterval = %v, want 500ms", cfg.Timer.TickInterval)
				}
				if cfg.Alarm.Command != "paplay /usr/share/sounds/bell.oga" {
					t.Errorf("Alarm.Command = %q", cfg.Alarm.Command)
				}
				if cfg.Display.ColorEnabled {
					t.Error("ColorEnabled = true, want false")
				}
				if cfg.Storage.Timeout != 3*time.Second {
					t.Errorf("Timeout = %v, want 3s", cfg.Storage.Timeout)
				}
				if cfg.Logging.Format != "json" {
					t.Errorf("Format = %s, want json", cfg.Logging.Format)
				}
			},
		},
		{
			name: "partial config keeps defaults",
			content: `timer:
  default_preset: 45
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Timer.DefaultPreset != 45 {
					t.Errorf("DefaultPreset = %d, want 45", cfg.Timer.DefaultPreset)
				}
				if len(cfg.Timer.Presets) != 5 {
					t.Errorf("Presets = %v, want defaults", cfg.Timer.Presets)
				}
				if !cfg.Display.ColorEnabled {
					t.Error("ColorEnabled lost its default")
				}
				if cfg.Storage.Key != "pomodoro_sessions" {
					t.Errorf("Key = %s", cfg.Storage.Key)
				}
			},
		},
		{
			name: "invalid values",
			content: `timer:
  presets: [25]
  default_preset: 20
`,
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			content: `invalid: yaml: content: [`,
			wantErr: true,
		},
		{
			name:    "non-existent file",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filePath := filepath.Join(tmpDir, "nonexistent.yaml")
			if tt.content != "" {
				filePath = filepath.Join(tmpDir, tt.name+".yaml")
				if err := os.WriteFile(filePath, []byte(tt.content), 0600); err != nil {
					t.Fatalf("Failed to create test file: %v", err)
				}
			}

			cfg, err := NewLoader(filePath).Load()

			if tt.wantErr {
				if err == nil {
					t.Error("Load() error = nil, wantErr = true")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v, wantErr = false", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadInvalidYAMLError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("timer: ["), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader("").LoadFromFile(path)
	if !errors.Is(err, ErrInvalidYAML) {
		t.Errorf("LoadFromFile() error = %v, want ErrInvalidYAML", err)
	}

	_, err = NewLoader("").LoadFromFile(path + ".missing")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadFromFile() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoad(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.Timer.DefaultPreset != 20 {
		t.Errorf("DefaultPreset = %d, want 20", cfg.Timer.DefaultPreset)
	}
}

func TestLoadFindsHomeConfig(t *testing.T) {
	home := isolate(t)

	path := filepath.Join(home, ".config", "focus-timer", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("display:\n  default_format: json\n"), 0600); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader("")
	if loader.Path() != path {
		t.Errorf("Path() = %s, want %s", loader.Path(), path)
	}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Display.DefaultFormat != "json" {
		t.Errorf("DefaultFormat = %s, want json", cfg.Display.DefaultFormat)
	}
}

func TestConfigEnvVar(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, path)

	loader := NewLoader("")
	if loader.Path() != path {
		t.Errorf("Path() = %s, want %s", loader.Path(), path)
	}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %s, want warn", cfg.Logging.Level)
	}

	t.Setenv(EnvConfig, path+".missing")
	if _, err := Load(); err == nil {
		t.Error("Load() with missing FOCUS_TIMER_CONFIG succeeded")
	}
}

func TestSave(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Logging.Level = "debug"
	cfg.Timer.Presets = []int{10, 20}
	cfg.Timer.DefaultPreset = 10

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loadedCfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if loadedCfg.Logging.Level != "debug" {
		t.Errorf("Loaded config LogLevel = %s, want debug", loadedCfg.Logging.Level)
	}
	if !reflect.DeepEqual(loadedCfg.Timer.Presets, []int{10, 20}) {
		t.Errorf("Loaded presets = %v", loadedCfg.Timer.Presets)
	}
	if loadedCfg.Timer.TickInterval != time.Second {
		t.Errorf("Loaded TickInterval = %v", loadedCfg.Timer.TickInterval)
	}

	bad := Default()
	bad.Timer.Presets = nil
	if err := Save(bad, configPath); !errors.Is(err, ErrNoPresets) {
		t.Errorf("Save(invalid) error = %v, want ErrNoPresets", err)
	}
}

func TestEnvVarOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvDB, "/env/db.db")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvPresets, "15, 50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.DBPath != "/env/db.db" {
		t.Errorf("DBPath = %s, want /env/db.db", cfg.Storage.DBPath)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.Logging.Level)
	}
	if !reflect.DeepEqual(cfg.Timer.Presets, []int{15, 50}) {
		t.Errorf("Presets = %v, want [15 50]", cfg.Timer.Presets)
	}
	if cfg.Timer.DefaultPreset != 15 {
		t.Errorf("DefaultPreset = %d, want 15", cfg.Timer.DefaultPreset)
	}
}

func TestEnvVarInvalidPresets(t *testing.T) {
	isolate(t)
	t.Setenv(EnvPresets, "25,abc")

	_, err := Load()
	if !errors.Is(err, ErrInvalidEnv) {
		t.Errorf("Load() error = %v, want ErrInvalidEnv", err)
	}
}

func TestParsePresets(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"25", []int{25}, false},
		{"20,25, 30", []int{20, 25, 30}, false},
		{"25,,50,", []int{25, 50}, false},
		{" , ", nil, true},
		{"x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePresets(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePresets(%q) error = %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePresets(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func BenchmarkValidate(b *testing.B) {
	cfg := Default()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := cfg.Validate(); err != nil {
			b.Fatal(err)
		}
	}
}
