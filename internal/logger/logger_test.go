package logger

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]log.Level{
		"":      log.InfoLevel,
		"DEBUG": log.DebugLevel,
		"warn":  log.WarnLevel,
		"ERROR": log.ErrorLevel,
		"nope":  log.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewWriter(t *testing.T) {
	w, err := newWriter("", accessLogFile, false)
	if err != nil || w != io.Discard {
		t.Fatalf("expected discarding writer: %v", err)
	}
	dir := t.TempDir()
	w, err = newWriter(dir, accessLogFile, false)
	if err != nil {
		t.Fatalf("newWriter: %v", err)
	}
	if _, err = w.Write([]byte("GET /api/employees 200\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, accessLogFile))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "GET /api/employees 200\n" {
		t.Fatalf("unexpected log content %q", data)
	}
}
