package tic

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/risor-io/tic/bridge"
)

// Option configures a Runtime.
type Option func(*config)

type config struct {
	reporter              Reporter
	logger                zerolog.Logger
	table                 *bridge.Table
	globals               map[string]any
	denylist              map[string]bool
	withoutDefaultGlobals bool
	filename              string
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger:   log.Logger,
		globals:  map[string]any{},
		denylist: map[string]bool{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.table == nil {
		cfg.table = bridge.Default()
	}
	return cfg
}

// WithReporter sets where script failures are delivered. By default they go
// to the host when it implements host.ErrorSink, and to the logger otherwise.
func WithReporter(r Reporter) Option {
	return func(cfg *config) {
		cfg.reporter = r
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithTable replaces the console operations exposed to scripts.
func WithTable(t *bridge.Table) Option {
	return func(cfg *config) {
		cfg.table = t
	}
}

// WithGlobals provides additional globals to every instance. This option is
// additive, and these values take precedence over console operations of the
// same name.
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		for k, v := range globals {
			cfg.globals[k] = v
		}
	}
}

// WithGlobal provides a single additional global.
func WithGlobal(name string, value any) Option {
	return func(cfg *config) {
		cfg.globals[name] = value
	}
}

// WithoutGlobals removes Risor default builtins or modules by name.
func WithoutGlobals(names ...string) Option {
	return func(cfg *config) {
		for _, name := range names {
			cfg.denylist[name] = true
		}
	}
}

// WithoutDefaultGlobals opts out of Risor's default builtins and modules;
// only the console operations and WithGlobals values remain.
func WithoutDefaultGlobals() Option {
	return func(cfg *config) {
		cfg.withoutDefaultGlobals = true
	}
}

// WithFilename names the cartridge source in logs.
func WithFilename(filename string) Option {
	return func(cfg *config) {
		cfg.filename = filename
	}
}
