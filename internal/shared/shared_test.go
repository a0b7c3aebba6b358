package shared

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestFormatMinutes(t *testing.T) {
	tc := []struct {
		name    string
		minutes int
		want    string
	}{
		{name: "under an hour", minutes: 45, want: "45 min"},
		{name: "exactly an hour", minutes: 60, want: "1h"},
		{name: "hours and minutes", minutes: 75, want: "1h 15m"},
		{name: "zero", minutes: 0, want: "0 min"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMinutes(tt.minutes); got != tt.want {
				t.Errorf("FormatMinutes(%d) = %v, want %v", tt.minutes, got, tt.want)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		in   string
		want log.Level
	}{
		{in: "debug", want: log.DebugLevel},
		{in: " WARN ", want: log.WarnLevel},
		{in: "error", want: log.ErrorLevel},
		{in: "bogus", want: log.InfoLevel},
		{in: "", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggers(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "key", "value")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "fitx.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("written")
	})
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("GenerateID() returned invalid uuid %q: %v", id, err)
	}
	if id == GenerateID() {
		t.Error("GenerateID() should not repeat")
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(compact) != `{"key":"value"}` {
		t.Errorf("unexpected compact output %s", compact)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"key\": \"value\"") {
		t.Errorf("unexpected pretty output %s", pretty)
	}
}

func TestRemoteError(t *testing.T) {
	err := &RemoteError{Method: "GET", Path: "/videos", Status: 500, Message: "db down"}

	if !strings.Contains(err.Error(), "db down") {
		t.Errorf("expected message in error, got %v", err)
	}
	if !errors.Is(err, ErrRemote) {
		t.Error("RemoteError should unwrap to ErrRemote")
	}
	if RemoteStatus(fmt.Errorf("wrapped: %w", err)) != 500 {
		t.Errorf("RemoteStatus() = %d, want 500", RemoteStatus(err))
	}
	if RemoteStatus(ErrTransport) != 0 {
		t.Error("RemoteStatus() of non-remote error should be 0")
	}
}
