package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tiger2021/httpcore/config"
)

type Option func(*Pool)

// WithLogger sets the logger. By default, nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// WithHealthCheck overrides the health checker pauses.
func WithHealthCheck(hc config.HealthCheck) Option {
	return func(p *Pool) {
		p.healthCheck = hc
	}
}

// Pool is a fixed-size set of connections shared among all the request handlers. Every
// connection is at any time either idle, waiting in the pool, or leased to exactly one
// owner. The mutex guards the bookkeeping only: connections are never pinged or
// reconnected while it's held.
type Pool struct {
	mu          sync.Mutex
	cond        *sync.Cond
	idle        []Conn
	capacity    int
	leased      int
	waiting     int
	initialized bool
	closed      bool
	cfg         config.DB

	// initMu serializes Init calls, so dialing doesn't happen under mu.
	initMu      sync.Mutex
	dial        Dialer
	healthCheck config.HealthCheck
	logger      zerolog.Logger
	stopChecker context.CancelFunc
	checker     sync.WaitGroup
}

// NewPool returns an uninitialized pool. Acquiring from it fails with ErrNotInitialized
// until Init succeeds.
func NewPool(dial Dialer, opts ...Option) *Pool {
	p := &Pool{
		dial:        dial,
		healthCheck: config.Default().HealthCheck,
		logger:      zerolog.Nop(),
	}
	p.cond = sync.NewCond(&p.mu)

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Init dials cfg.PoolSize connections and starts the health checker. Only the first
// successful call has an effect, all the following ones are silently ignored. If any
// connection cannot be established, the already dialed ones are closed and the pool
// stays uninitialized, so Init may be retried.
func (p *Pool) Init(ctx context.Context, cfg config.DB) error {
	p.initMu.Lock()
	defer p.initMu.Unlock()

	p.mu.Lock()
	initialized, closed := p.initialized, p.closed
	p.mu.Unlock()

	switch {
	case closed:
		return ErrClosed
	case initialized:
		return nil
	case cfg.PoolSize <= 0:
		return ErrPoolSize
	}

	conns := make([]Conn, 0, cfg.PoolSize)
	for i := 0; i < cfg.PoolSize; i++ {
		conn, err := p.dial(ctx, cfg)
		if err != nil {
			_ = closeAll(conns)
			return fmt.Errorf("db: dial connection %d of %d: %w", i+1, cfg.PoolSize, err)
		}

		conns = append(conns, conn)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = closeAll(conns)
		return ErrClosed
	}

	p.idle = conns
	p.capacity = cfg.PoolSize
	p.cfg = cfg
	p.initialized = true

	checkerCtx, cancel := context.WithCancel(context.Background())
	p.stopChecker = cancel
	p.checker.Add(1)
	p.mu.Unlock()

	go p.runHealthChecker(checkerCtx)

	p.logger.Info().
		Str("driver", cfg.Driver).
		Str("host", cfg.Host).
		Int("size", cfg.PoolSize).
		Msg("database connection pool initialized")

	return nil
}

// Acquire leases an idle connection, blocking until one is available or ctx is done.
// The connection is checked before being handed out and reconnected if it's dead. If
// reconnecting fails, the error is returned, but the connection goes back to the pool
// anyway.
func (p *Pool) Acquire(ctx context.Context) (*Lease, error) {
	conn, err := p.take(ctx)
	if err != nil {
		return nil, err
	}

	handedOut := false
	defer func() {
		if !handedOut {
			p.put(conn)
		}
	}()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	if !conn.Ping(ctx) {
		p.logger.Warn().Msg("connection lost, attempting to reconnect")

		if err = conn.Reconnect(ctx); err != nil {
			p.logger.Error().Err(err).Msg("failed to get connection")
			return nil, fmt.Errorf("%w: %w", ErrReconnect, err)
		}
	}

	handedOut = true

	return newLease(p, conn), nil
}

// With acquires a connection for the duration of fn. The connection is returned on
// every exit path, including panics.
func (p *Pool) With(ctx context.Context, fn func(Conn) error) error {
	lease, err := p.Acquire(ctx)
	if err != nil {
		return err
	}

	defer lease.Release()

	return fn(lease.Conn())
}

func (p *Pool) take(ctx context.Context) (Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	if len(p.idle) == 0 {
		if !p.initialized {
			return nil, ErrNotInitialized
		}

		if ctx.Done() != nil {
			// sync.Cond knows nothing about contexts, so wake everyone up on cancellation
			// and let the waiters re-check their own contexts.
			stop := context.AfterFunc(ctx, func() {
				p.mu.Lock()
				p.cond.Broadcast()
				p.mu.Unlock()
			})
			defer stop()
		}

		for len(p.idle) == 0 {
			if p.closed {
				return nil, ErrClosed
			}

			if err := ctx.Err(); err != nil {
				return nil, err
			}

			p.logger.Debug().Int("waiting", p.waiting+1).Msg("waiting for available connection")
			p.waiting++
			p.cond.Wait()
			p.waiting--
		}
	}

	conn := p.idle[0]
	n := copy(p.idle, p.idle[1:])
	p.idle[n] = nil
	p.idle = p.idle[:n]
	p.leased++

	return conn, nil
}

// put returns a leased connection and wakes a single waiter, as exactly one connection
// became available.
func (p *Pool) put(conn Conn) {
	p.mu.Lock()
	p.leased--

	if p.closed {
		p.mu.Unlock()
		if err := conn.Close(); err != nil {
			p.logger.Warn().Err(err).Msg("failed to close connection returned after shutdown")
		}

		return
	}

	p.idle = append(p.idle, conn)
	p.cond.Signal()
	p.mu.Unlock()
}

// snapshot copies the idle set, so it can be walked through without holding the lock.
func (p *Pool) snapshot() []Conn {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.idle) == 0 {
		return nil
	}

	conns := make([]Conn, len(p.idle))
	copy(conns, p.idle)

	return conns
}

// Close stops the health checker and waits for it to exit, fails all the pending and
// future acquisitions with ErrClosed, and closes idle connections. Leased connections
// are closed as soon as their leases are released.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}

	p.closed = true
	idle := p.idle
	p.idle = nil
	stop := p.stopChecker
	p.cond.Broadcast()
	p.mu.Unlock()

	if stop != nil {
		stop()
		p.checker.Wait()
	}

	p.logger.Info().Msg("database connection pool closed")

	return closeAll(idle)
}

// Config returns the credentials the pool was initialized with.
func (p *Pool) Config() config.DB {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cfg
}

type Stats struct {
	Capacity int
	Idle     int
	Leased   int
	Waiting  int
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Capacity: p.capacity,
		Idle:     len(p.idle),
		Leased:   p.leased,
		Waiting:  p.waiting,
	}
}

func closeAll(conns []Conn) error {
	var errs []error
	for _, conn := range conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
