package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWritesJSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "production")
	logger.Info().Str("post_id", "p1").Msg("Post published")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["post_id"] != "p1" || entry["message"] != "Post published" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatal("expected a timestamp field")
	}
}

func TestNewWritesConsoleInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "development")
	logger.Info().Msg("hello")

	if strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("message missing from %q", buf.String())
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		env  string
		want zerolog.Level
	}{
		{"development", zerolog.DebugLevel},
		{"test", zerolog.WarnLevel},
		{"production", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := levelFor(tt.env); got != tt.want {
				t.Fatalf("levelFor(%q) = %v, want %v", tt.env, got, tt.want)
			}
		})
	}
}
