package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		present []string
		absent  []string
	}{
		{
			name:    "debug shows everything",
			level:   "debug",
			present: []string{"tick message", "session message", "slow store", "write failed"},
		},
		{
			name:    "warn drops debug and info",
			level:   "warn",
			present: []string{"slow store", "write failed"},
			absent:  []string{"tick message", "session message"},
		},
		{
			name:    "unknown level means info",
			level:   "verbose",
			present: []string{"session message", "write failed"},
			absent:  []string{"tick message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := newWithWriter(&buf, Config{Level: tt.level, Format: "text"})

			log.Debug("tick message")
			log.Info("session message")
			log.Warn("slow store")
			log.Error("write failed")

			content := buf.String()
			for _, want := range tt.present {
				if !strings.Contains(content, want) {
					t.Errorf("%q not found in log", want)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(content, unwanted) {
					t.Errorf("%q should be filtered out", unwanted)
				}
			}
		})
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	base := newWithWriter(&buf, Config{Level: "info", Format: "text"})

	base.With("component", "ledger").Info("session recorded", "id", 1700000000000)

	content := buf.String()
	for _, want := range []string{"component=ledger", "session recorded", "id=1700000000000"} {
		if !strings.Contains(content, want) {
			t.Errorf("%q not found in %q", want, content)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, Config{Level: "info", Format: "JSON"})

	log.Info("preset selected", "minutes", 25)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON log: %v", err)
	}
	if entry["msg"] != "preset selected" {
		t.Errorf("msg = %v, want preset selected", entry["msg"])
	}
	if entry["minutes"] != float64(25) {
		t.Errorf("minutes = %v, want 25", entry["minutes"])
	}
}

func TestFileOutputCreatesDirectory(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "focus-timer.log")

	log := New(Config{Level: "info", Output: logFile, Format: "text"})
	log.Info("ledger opened")
	log.Info("ledger opened again")

	data, err := os.ReadFile(logFile) // nolint:gosec
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if got := strings.Count(string(data), "ledger opened"); got != 2 {
		t.Errorf("found %d entries, want 2", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"", "INFO"},
		{"DEBUG", "DEBUG"},
		{"WaRn", "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLevel(tt.level).String(); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestGetWriter(t *testing.T) {
	tests := []struct {
		output string
		want   io.Writer
	}{
		{"stdout", os.Stdout},
		{"STDOUT", os.Stdout},
		{"stderr", os.Stderr},
		{"", os.Stderr},
		{"discard", io.Discard},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			w, err := getWriter(tt.output)
			if err != nil {
				t.Fatalf("getWriter() error = %v", err)
			}
			if w != tt.want {
				t.Errorf("getWriter(%q) returned unexpected writer", tt.output)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandHome("~"); got != home {
		t.Errorf("ExpandHome(~) = %s, want %s", got, home)
	}
	if got := ExpandHome("~/.config/focus-timer"); got != filepath.Join(home, ".config", "focus-timer") {
		t.Errorf("ExpandHome() = %s", got)
	}
	if got := ExpandHome("/var/log/x.log"); got != "/var/log/x.log" {
		t.Errorf("absolute path changed: %s", got)
	}
}

func TestNoop(t *testing.T) {
	log := Noop()
	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
	log.With("k", "v").Info("still quiet")
}
