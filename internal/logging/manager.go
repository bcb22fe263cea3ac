// Package logging wires slog to console, a session log file and (optionally)
// an OpenTelemetry log bridge.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// Manager owns the planner's slog configuration.
type Manager struct {
	logger *slog.Logger

	// OTel provider for flushing
	logProvider *sdklog.LoggerProvider
}

// NewManager creates a logging manager. Call Setup before use.
func NewManager() *Manager {
	return &Manager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes logging with console, optional file and optional OTel
// output. A nil provider disables the OTel bridge. The context provider, when
// non-nil, stamps every record with live session attributes.
func (m *Manager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider, sessionAttrs ContextProvider) {
	lvl := parseLevel(level)
	m.logProvider = provider

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	handlers = append(handlers, slog.NewTextHandler(os.Stdout, handlerOpts))

	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}

	if provider != nil {
		handlers = append(handlers, otelslog.NewHandler("sky-guardian-planner", otelslog.WithLoggerProvider(provider)))
	}

	var handler slog.Handler = NewMultiHandler(handlers...)
	if sessionAttrs != nil {
		handler = NewContextHandler(handler, sessionAttrs)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger, or slog.Default before Setup.
func (m *Manager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *Manager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}

// SessionLogPath builds the per-session log file path.
func SessionLogPath(logsDir string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("skyguardian.%s.log", sessionStart.Format("20060102_150405")),
	)
}
