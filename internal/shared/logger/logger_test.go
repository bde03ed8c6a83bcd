package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"linerelay/internal/shared/types"
)

func TestInit_Level(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(types.LogConf{Level: "WARN"}, &buf); err != nil {
		t.Fatalf("InitWithWriter() returned %v", err)
	}
	if log.Logger.GetLevel() != zerolog.WarnLevel {
		t.Errorf("Expected warn level, got %s", log.Logger.GetLevel())
	}

	Info().Msg("hidden")
	Warn().Str("key", "value").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "value") {
		t.Errorf("warn message missing, got %q", out)
	}
}

func TestInit_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(types.LogConf{Level: "loud"}, &buf); err != nil {
		t.Fatalf("InitWithWriter() returned %v", err)
	}
	if log.Logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level, got %s", log.Logger.GetLevel())
	}
	if !strings.Contains(buf.String(), "Unknown log level 'loud'") {
		t.Errorf("Expected a notice about the unknown level, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(types.LogConf{Level: "debug"}, &buf); err != nil {
		t.Fatalf("InitWithWriter() returned %v", err)
	}
	l := WithComponent("client")
	l.Info().Msg("hello")

	if !strings.Contains(buf.String(), "component=client") {
		t.Errorf("Expected component field, got %q", buf.String())
	}
}

func TestEvent_Fields(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(types.LogConf{Level: "debug"}, &buf); err != nil {
		t.Fatalf("InitWithWriter() returned %v", err)
	}

	Error().
		Str("remote_addr", "127.0.0.1:9").
		Int("lines", 3).
		Uint64("bytes", 42).
		Bool("sent_stop", true).
		Err(errors.New("boom")).
		Msgf("finished %s", "session")

	out := buf.String()
	for _, want := range []string{"ERR", "finished session", "remote_addr=127.0.0.1:9", "lines=3", "bytes=42", "sent_stop=true", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got %q", want, out)
		}
	}
}
