package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aschepis/backscratcher/sparky/config"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestErrorLogPath(t *testing.T) {
	if got := ErrorLogPath("logs/agent.log"); got != "logs/agent-error.log" {
		t.Errorf("ErrorLogPath() = %q", got)
	}
	if got := ErrorLogPath("agent"); got != "agent-error" {
		t.Errorf("ErrorLogPath() = %q", got)
	}
}

func TestConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := newWithConsole(config.LoggingConfig{Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("newWithConsole() error = %v", err)
	}
	defer closer.Close() //nolint:errcheck // test

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestFileAndErrorFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "agent.log")

	var console bytes.Buffer
	log, closer, err := newWithConsole(config.LoggingConfig{Level: "info", File: path}, &console)
	if err != nil {
		t.Fatalf("newWithConsole() error = %v", err)
	}

	log.Info().Msg("routine event")
	log.Error().Msg("broken event")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	all, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(all), "routine event") || !strings.Contains(string(all), "broken event") {
		t.Errorf("main log missing entries: %s", all)
	}

	errorsOnly, err := os.ReadFile(ErrorLogPath(path)) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("read error log: %v", err)
	}
	if strings.Contains(string(errorsOnly), "routine event") {
		t.Errorf("error log contains info entry: %s", errorsOnly)
	}
	if !strings.Contains(string(errorsOnly), `"level":"error"`) {
		t.Errorf("error log missing error entry: %s", errorsOnly)
	}
}
