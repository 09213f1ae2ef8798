package internal

import (
	"io"

	"github.com/starford/ansuz/internal/store"
)

// Option is a functional option for configuring the application.
type Option func(*App)

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) {
		a.cfg = cfg
	}
}

// WithOutput redirects user-facing output. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

// WithStore overrides the backing store provider, bypassing driver
// selection from the configuration. Used by tests.
func WithStore(p store.Provider) Option {
	return func(a *App) {
		a.store = p
	}
}
