package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"not-a-level", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			l := New(tc.level, FormatConsole)
			if l.GetLevel() != tc.expected {
				t.Errorf("Expected level %v, got %v", tc.expected, l.GetLevel())
			}
			if zerolog.DefaultContextLogger == nil {
				t.Error("Expected default context logger to be set")
			}
		})
	}
}

func TestFormats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		l := build(&buf, "info", "JSON")
		l.Info().Str("screen", "/news").Msg("Committed")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("Expected a JSON line, got %q: %v", buf.String(), err)
		}
		if entry["message"] != "Committed" || entry["screen"] != "/news" {
			t.Errorf("Unexpected entry %v", entry)
		}
		if _, ok := entry["pid"]; !ok {
			t.Error("Expected pid field")
		}
	})

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		l := build(&buf, "info", FormatConsole)
		l.Info().Msg("Committed")

		if strings.HasPrefix(buf.String(), "{") {
			t.Errorf("Expected console output, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), "Committed") {
			t.Errorf("Expected message in output, got %q", buf.String())
		}
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		l := build(&buf, "warn", FormatJSON)
		l.Info().Msg("hidden")
		if buf.Len() != 0 {
			t.Errorf("Expected info to be filtered, got %q", buf.String())
		}
	})
}
