package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "default", input: "", want: slog.LevelInfo},
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "warn alias", input: "warning", want: slog.LevelWarn},
		{name: "error", input: " ERROR ", want: slog.LevelError},
		{name: "invalid", input: "nope", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Fatalf("parseLevel(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOpenOutputFallsBackToStderr(t *testing.T) {
	if got := openOutput(""); got != os.Stderr {
		t.Fatal("empty path should use stderr")
	}
	missing := filepath.Join(t.TempDir(), "no-such-dir", "roster.log")
	if got := openOutput(missing); got != os.Stderr {
		t.Fatal("unopenable path should use stderr")
	}
}

func TestOpenOutputAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.log")
	w := openOutput(path)
	f, ok := w.(*os.File)
	if !ok || f == os.Stderr {
		t.Fatalf("expected a log file, got %T", w)
	}
	defer f.Close()
	if _, err := f.WriteString("entry\n"); err != nil {
		t.Fatalf("write log: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != "entry\n" {
		t.Fatalf("unexpected log content %q", data)
	}
}
