package internal

import (
	"io"

	"github.com/starford/ley/internal/site"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	logOutput io.Writer
	notify    site.NotifyFunc
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogOutput sets where the JSON logs are written. Defaults to stdout.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}

// WithNotify registers a callback for every page the builder writes or
// removes.
func WithNotify(fn site.NotifyFunc) Option {
	return func(a *application) {
		a.notify = fn
	}
}
