package internal

import (
	"io"
	"log/slog"
)

// Option is a functional option for configuring the application.
type Option func(*App)

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithStdout sets where reports are written.
func WithStdout(w io.Writer) Option {
	return func(a *App) {
		a.stdout = w
	}
}

// WithStderr sets where diagnostics and logs are written.
func WithStderr(w io.Writer) Option {
	return func(a *App) {
		a.stderr = w
	}
}

// WithQuiet suppresses diagnostics.
func WithQuiet(quiet bool) Option {
	return func(a *App) {
		a.quiet = quiet
	}
}

// WithLogger overrides the logger built from the configuration.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *App) {
		a.version = v
	}
}
