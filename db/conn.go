package db

import (
	"context"
	"errors"

	"github.com/tiger2021/httpcore/config"
)

var (
	ErrNotInitialized = errors.New("db: connection pool is not initialized")
	ErrClosed         = errors.New("db: connection pool is closed")
	ErrReconnect      = errors.New("db: connection is lost and reconnect failed")
	ErrPoolSize       = errors.New("db: pool size must be at least 1")
)

// Conn is a single backend connection. The pool never runs queries on its own, it only
// keeps connections alive. Ping and Reconnect may be called by the health checker while
// the connection is idle, so implementations must tolerate it being picked up by a new
// owner in the middle of a check.
type Conn interface {
	// Ping reports whether the connection is still usable.
	Ping(ctx context.Context) bool
	// Reconnect re-establishes the connection.
	Reconnect(ctx context.Context) error
	// Close releases the connection for good.
	Close() error
}

// Dialer establishes a new connection using the credentials.
type Dialer func(ctx context.Context, cfg config.DB) (Conn, error)
