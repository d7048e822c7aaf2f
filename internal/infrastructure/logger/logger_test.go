package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLoggerFormatsOutput(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		assertions func(t *testing.T, output string)
	}{
		{
			name:   "json format carries message field",
			format: "json",
			assertions: func(t *testing.T, output string) {
				if !strings.HasPrefix(output, "{") || !strings.Contains(output, `"message":"hello"`) {
					t.Fatalf("unexpected json output %q", output)
				}
			},
		},
		{
			name:   "console format is human readable",
			format: "console",
			assertions: func(t *testing.T, output string) {
				if strings.HasPrefix(output, "{") || !strings.Contains(output, "hello") {
					t.Fatalf("unexpected console output %q", output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Format: tt.format, Level: "info", Output: &buf})
			log.Info().Msg("hello")

			tt.assertions(t, buf.String())
		})
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "json", Level: "warn", Output: &buf})

	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level, got %q", buf.String())
	}

	log.Warn().Msg("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("expected warn output, got %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Format: "json", Output: &buf})
	scoped := base.With().Str("event_id", "evt-1").Logger()

	ctx := WithContext(context.Background(), scoped)
	got := FromContext(ctx, zerolog.Nop())
	got.Info().Msg("scoped")

	if !strings.Contains(buf.String(), `"event_id":"evt-1"`) {
		t.Fatalf("expected scoped field, got %q", buf.String())
	}
}

func TestFromContextFallback(t *testing.T) {
	var buf bytes.Buffer
	fallback := New(Config{Format: "json", Output: &buf})

	got := FromContext(context.Background(), fallback)
	got.Info().Msg("fallback")

	if !strings.Contains(buf.String(), "fallback") {
		t.Fatalf("expected fallback logger to be used, got %q", buf.String())
	}
}
