package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecotrack-campus/ecotrack/internal/api"
	"github.com/ecotrack-campus/ecotrack/internal/app/session"
	"github.com/ecotrack-campus/ecotrack/internal/infra/observability"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Daemon owns the session manager and the HTTP server.
type Daemon struct {
	Config   Config
	Logger   zerolog.Logger
	Sessions *session.Manager
	Metrics  *observability.Metrics
	Tracer   *observability.Tracer

	server *api.Server
}

// New assembles a daemon from cfg. Nothing listens until Run.
func New(cfg Config, logger zerolog.Logger, version string) *Daemon {
	d := &Daemon{Config: cfg, Logger: logger}

	opts := []session.Option{session.WithLogger(logger.With().Str("component", "session").Logger())}
	if cfg.Metrics.Enabled {
		d.Metrics = observability.NewMetrics()
		opts = append(opts, session.WithMetrics(d.Metrics))
	}
	d.Sessions = session.NewManager(cfg.SessionManagerConfig(), cfg.StoreFactory(), opts...)

	d.server = api.NewServer(d.Sessions, logger.With().Str("component", "api").Logger())
	d.server.SetVersion(version)
	if d.Metrics != nil {
		d.server.EnableMetrics(d.Metrics)
	}
	if cfg.Metrics.Tracing {
		d.Tracer = observability.NewTracer(observability.DefaultTracerConfig())
		d.server.SetTracer(d.Tracer)
	}
	return d
}

// Handler exposes the HTTP handler, mainly for tests.
func (d *Daemon) Handler() http.Handler { return d.server.Handler() }

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully and ends every session.
func (d *Daemon) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", d.Config.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", d.Config.Addr(), err)
	}
	return d.Serve(ctx, ln)
}

// Serve runs the API on ln until ctx is cancelled.
func (d *Daemon) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           d.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go d.sweepIdle(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		d.Logger.Info().
			Str("addr", ln.Addr().String()).
			Str("store", d.Config.Session.Store).
			Bool("metrics", d.Metrics != nil).
			Msg("ecotrack API listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		d.Sessions.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	d.Logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)
	closeErr := d.Sessions.Close()
	if shutdownErr != nil {
		return fmt.Errorf("shutdown: %w", shutdownErr)
	}
	return closeErr
}

// sweepIdle ends idle sessions between logins so abandoned sessions do not
// hold their stores until the next Create.
func (d *Daemon) sweepIdle(ctx context.Context) {
	idle := d.Sessions.IdleTimeout()
	if idle <= 0 {
		return
	}
	interval := idle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := d.Sessions.Sweep(); n > 0 {
				d.Logger.Debug().Int("ended", n).Msg("idle sessions swept")
			}
		}
	}
}
