package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgraph/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))

	time.Sleep(5 * time.Millisecond)
	prog.done("Parsed main.go")

	out := buf.String()
	if !strings.Contains(out, "Parsed main.go (") || !strings.Contains(out, "ms)") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	registerLogHooks(newLogger(&buf, log.DebugLevel))
	ctx := context.Background()

	observability.Frontend().OnParseStart(ctx, "go", "main.go")
	observability.Frontend().OnParseComplete(ctx, "go", "main.go", 2, 9, time.Millisecond, nil)
	observability.Frontend().OnParseComplete(ctx, "go", "bad.go", 0, 0, 0, errors.New("syntax error"))
	observability.Render().OnRenderStart(ctx, "svg", 120)
	observability.Render().OnRenderComplete(ctx, "svg", time.Millisecond, nil)
	observability.Cache().OnCacheHit(ctx, "snapshot")
	observability.Cache().OnCacheMiss(ctx, "artifact")
	observability.Cache().OnCacheSet(ctx, "artifact", 64)

	out := buf.String()
	for _, want := range []string{
		"parse started", "parse finished", "functions=2", "parse failed", "syntax error",
		"render started", "render finished", "cache hit", "cache miss", "cache set",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	registerLogHooks(newLogger(&buf, log.InfoLevel))
	observability.Cache().OnCacheHit(context.Background(), "snapshot")

	if buf.Len() != 0 {
		t.Errorf("hooks should log at debug level only, got %q", buf.String())
	}
}
