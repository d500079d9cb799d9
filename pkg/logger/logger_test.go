package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/stockdesk/backend/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "debug",
		LogFormat: "json",
	}

	log := New(cfg)
	if log == nil {
		t.Fatal("New() returned nil")
	}

	// Derived loggers should not panic and should be independent values.
	log.Component("screener").WithField("symbol", "AAPL").Debug("test")
	log.WithFields(map[string]interface{}{"a": 1, "b": "two"}).Info("test")
}

func TestNewDiscard(t *testing.T) {
	log := NewDiscard()
	log.Info("swallowed")
	log.WithError(nil).Warn("swallowed")
}
