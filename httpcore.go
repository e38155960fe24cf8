package httpcore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tiger2021/httpcore/config"
	"github.com/tiger2021/httpcore/db"
	"github.com/tiger2021/httpcore/db/sqlconn"
	"github.com/tiger2021/httpcore/http"
	httpserver "github.com/tiger2021/httpcore/internal/server/http"
	"github.com/tiger2021/httpcore/internal/server/tcp"
	"github.com/tiger2021/httpcore/logging"
)

// Handler produces a response for a completed request. The request is valid only until
// the handler returns. A nil response is 200 OK with no body.
type Handler func(req *http.Request) *http.Response

type hooks struct {
	OnStart, OnStop func()
}

// App serves HTTP/1.x requests on a single listener and owns the database connection pool
// the handlers share.
type App struct {
	cfg    *config.Config
	logger zerolog.Logger
	pool   *db.Pool
	hooks  hooks

	mu     sync.Mutex
	server *tcp.Server
}

// New returns an App connecting to the database via database/sql. The pool isn't
// initialized until Serve is called.
func New(cfg *config.Config, logger zerolog.Logger) *App {
	return NewWithDialer(cfg, logger, sqlconn.Dial)
}

// NewWithDialer is New with a custom database backend.
func NewWithDialer(cfg *config.Config, logger zerolog.Logger, dial db.Dialer) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		pool: db.NewPool(
			dial,
			db.WithLogger(logging.Component(logger, "pool")),
			db.WithHealthCheck(cfg.HealthCheck),
		),
	}
}

// NotifyOnStart calls the callback when the pool is initialized and the listener is open.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback when all the connections are closed and the pool is
// shut down.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Pool returns the connection pool shared among the handlers.
func (a *App) Pool() *db.Pool {
	return a.pool
}

// Addr returns the listening address, or nil if the App isn't serving.
func (a *App) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return nil
	}

	return a.server.Addr()
}

// Serve initializes the pool, then accepts connections until ctx is done. All the client
// connections are closed on return, and so is the pool.
func (a *App) Serve(ctx context.Context, handler Handler) error {
	if err := a.pool.Init(ctx, a.cfg.DB); err != nil {
		return fmt.Errorf("httpcore: %w", err)
	}

	defer func() {
		if err := a.pool.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("failed to close the pool")
		}
	}()

	sock, err := net.Listen("tcp", a.cfg.NET.Addr)
	if err != nil {
		return fmt.Errorf("httpcore: %w", err)
	}

	server := tcp.NewServer(sock)
	a.mu.Lock()
	a.server = server
	a.mu.Unlock()

	httpServer := httpserver.NewServer(a.cfg, httpserver.Handler(handler), logging.Component(a.logger, "http"))
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(httpServer.Serve)
	}()

	a.logger.Info().Str("addr", sock.Addr().String()).Msg("listening")
	callIfNotNil(a.hooks.OnStart)

	select {
	case <-ctx.Done():
		_ = server.Stop()
		err = <-errCh
	case err = <-errCh:
	}

	a.mu.Lock()
	a.server = nil
	a.mu.Unlock()

	callIfNotNil(a.hooks.OnStop)
	a.logger.Info().Msg("stopped")

	if errors.Is(err, tcp.ErrShutdown) {
		return nil
	}

	return err
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
