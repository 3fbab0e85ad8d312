// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferedSlogger(buf *bytes.Buffer) *slog.Logger {
	zl := zerolog.New(buf)
	return slog.New(&slogHandler{logger: zl})
}

func TestSlogHandlerLevels(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		name      string
		log       func(l *slog.Logger)
		wantLevel string
	}{
		{"debug", func(l *slog.Logger) { l.Debug("m") }, `"level":"debug"`},
		{"info", func(l *slog.Logger) { l.Info("m") }, `"level":"info"`},
		{"warn", func(l *slog.Logger) { l.Warn("m") }, `"level":"warn"`},
		{"error", func(l *slog.Logger) { l.Error("m") }, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newBufferedSlogger(&buf))

			if !strings.Contains(buf.String(), tt.wantLevel) {
				t.Errorf("expected %s in output: %s", tt.wantLevel, buf.String())
			}
		})
	}
}

func TestSlogHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedSlogger(&buf)

	logger.Info("attr test",
		slog.String("service", "http"),
		slog.Int("port", 3860),
		slog.Bool("ready", true),
		slog.Duration("uptime", 5*time.Second),
	)

	output := buf.String()
	for _, want := range []string{
		`"service":"http"`,
		`"port":3860`,
		`"ready":true`,
		`"message":"attr test"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestSlogHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedSlogger(&buf).With(slog.String("supervisor", "root"))

	logger.Info("service started")

	if !strings.Contains(buf.String(), `"supervisor":"root"`) {
		t.Errorf("expected pre-configured attr in output: %s", buf.String())
	}
}

func TestSlogHandlerWithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedSlogger(&buf).WithGroup("suture")

	logger.Info("event", slog.String("service", "rebuild"))

	if !strings.Contains(buf.String(), `"suture.service":"rebuild"`) {
		t.Errorf("expected group-prefixed key in output: %s", buf.String())
	}
}

func TestNewSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	slogger := NewSlogLogger()
	slogger.Info("via global")

	if !strings.Contains(buf.String(), `"message":"via global"`) {
		t.Errorf("expected slog output through global zerolog, got: %s", buf.String())
	}
}
