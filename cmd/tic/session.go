package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/risor-io/tic"
	"github.com/risor-io/tic/config"
	"github.com/risor-io/tic/console"
	"github.com/risor-io/tic/host"
	"github.com/risor-io/tic/store"
)

// session runs one cartridge on the reference console.
type session struct {
	console *console.Console
	runtime *tic.Runtime
	store   store.Store
	opts    config.Console
	source  string
	log     zerolog.Logger
	booted  bool
}

type sessionOption func(*sessionSettings)

type sessionSettings struct {
	consoleOpts []console.Option
	runtimeOpts []tic.Option
}

func withConsoleOptions(opts ...console.Option) sessionOption {
	return func(s *sessionSettings) {
		s.consoleOpts = append(s.consoleOpts, opts...)
	}
}

func withRuntimeOptions(opts ...tic.Option) sessionOption {
	return func(s *sessionSettings) {
		s.runtimeOpts = append(s.runtimeOpts, opts...)
	}
}

// newSession opens the store, creates the console and loads the cartridge.
// A cartridge that fails to load still yields a session so that its errors
// can be inspected; the load error is returned alongside it.
func newSession(ctx context.Context, cfg config.Config, name, source string, opts ...sessionOption) (*session, error) {
	var settings sessionSettings
	for _, opt := range opts {
		opt(&settings)
	}
	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	key := cfg.Console.Cart
	if key == "" {
		key = store.Key(name)
	}
	logger := log.With().Str("cart", key).Logger()
	consoleOpts := append([]console.Option{
		console.WithStore(s, key),
		console.WithLogger(logger),
	}, settings.consoleOpts...)
	c, err := console.New(ctx, consoleOpts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	runtimeOpts := append([]tic.Option{
		tic.WithLogger(logger),
		tic.WithFilename(name),
	}, settings.runtimeOpts...)
	sess := &session{
		console: c,
		runtime: tic.New(c, runtimeOpts...),
		store:   s,
		opts:    cfg.Console,
		source:  source,
		log:     logger,
	}
	return sess, sess.load(ctx)
}

func (s *session) load(ctx context.Context) error {
	s.booted = false
	return s.runtime.Initialize(ctx, s.source)
}

// frame runs one frame: BOOT on the first frame, then TIC, then the
// scanline and border callbacks when enabled. A soft reset requested by the
// cartridge restarts the console and reloads the code before the next frame.
// A reload failure has already been reported, so the loop keeps going.
func (s *session) frame(ctx context.Context) error {
	if s.console.ResetRequested() {
		s.log.Info().Msg("soft reset")
		s.console.Restart()
		if err := s.load(ctx); err != nil {
			s.log.Warn().Err(err).Msg("cartridge failed to reload")
		}
	}
	if !s.booted {
		s.booted = true
		s.runtime.Boot(ctx)
	}
	out := s.runtime.Tick(ctx)
	if errors.Is(out.Err, tic.ErrBusy) || errors.Is(out.Err, tic.ErrClosed) {
		return out.Err
	}
	if s.opts.Scanlines {
		for row := 0; row < host.ScreenHeight; row++ {
			s.runtime.Scanline(ctx, row)
		}
		for row := 0; row < host.ScreenHeight; row++ {
			s.runtime.Border(ctx, row)
		}
	}
	s.console.EndFrame()
	return nil
}

// run plays frames until the cartridge exits, the frame limit is reached
// or ctx is done. Persistent memory is flushed every second of frames.
func (s *session) run(ctx context.Context, frames int) error {
	flushEvery := max(s.opts.FPS, 1)
	for n := 0; frames == 0 || n < frames; n++ {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := s.frame(ctx); err != nil {
			return err
		}
		if s.console.ExitRequested() {
			s.log.Info().Int("frame", n+1).Msg("cartridge exited")
			break
		}
		if (n+1)%flushEvery == 0 {
			if err := s.console.Flush(ctx); err != nil {
				s.log.Warn().Err(err).Msg("flush persistent memory")
			}
		}
	}
	return nil
}

// close flushes persistent memory and releases the runtime and store.
func (s *session) close(ctx context.Context) error {
	var result *multierror.Error
	if err := s.console.Flush(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("flush: %w", err))
	}
	if err := s.runtime.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.store.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
