// Package sqlconn implements db.Conn over database/sql. Every Conn owns a *sql.DB
// limited to a single physical connection, so the pool size equals the number of
// connections opened to the server.
package sqlconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/tiger2021/httpcore/config"
	"github.com/tiger2021/httpcore/db"
	"github.com/tiger2021/httpcore/internal/address"
)

const defaultMySQLPort = 3306

var ErrUnsupportedDriver = errors.New("sqlconn: unsupported driver")

// Conn is safe for concurrent use: the health checker may ping it while the owner runs
// queries.
type Conn struct {
	mu     sync.RWMutex
	handle *sql.DB
	driver string
	dsn    string
}

var _ db.Conn = (*Conn)(nil)

// Dial opens and verifies a new connection. It satisfies db.Dialer.
func Dial(ctx context.Context, cfg config.DB) (db.Conn, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	handle, err := open(ctx, cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}

	return &Conn{
		handle: handle,
		driver: cfg.Driver,
		dsn:    dsn,
	}, nil
}

// DSN builds the data source name. For sqlite3 the database name is the file path.
func DSN(cfg config.DB) (string, error) {
	switch cfg.Driver {
	case "mysql":
		myCfg := mysql.NewConfig()
		myCfg.User = cfg.User
		myCfg.Passwd = cfg.Password
		myCfg.Net = "tcp"
		myCfg.Addr = address.WithDefaultPort(cfg.Host, defaultMySQLPort)
		myCfg.DBName = cfg.Database

		return myCfg.FormatDSN(), nil
	case "sqlite3":
		return cfg.Database, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

func open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	handle, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlconn: open: %w", err)
	}

	handle.SetMaxOpenConns(1)
	handle.SetMaxIdleConns(1)
	handle.SetConnMaxLifetime(0)

	// sql.Open is lazy, so the connection is actually established only here
	if err = handle.PingContext(ctx); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("sqlconn: connect: %w", err)
	}

	return handle, nil
}

func (c *Conn) Ping(ctx context.Context) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.handle == nil {
		return false
	}

	return c.handle.PingContext(ctx) == nil
}

// Reconnect replaces the underlying handle with a freshly opened one. The old one is
// closed only after the new one is ready, so on failure the connection stays as it was.
func (c *Conn) Reconnect(ctx context.Context) error {
	handle, err := open(ctx, c.driver, c.dsn)
	if err != nil {
		return err
	}

	c.mu.Lock()
	old := c.handle
	c.handle = handle
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	return nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	handle := c.handle
	c.handle = nil
	c.mu.Unlock()

	if handle == nil {
		return nil
	}

	return handle.Close()
}

func (c *Conn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.handle == nil {
		return nil, sql.ErrConnDone
	}

	return c.handle.ExecContext(ctx, query, args...)
}

// QueryContext runs a query. The rows must be closed before the connection is released,
// otherwise the next owner blocks on the single physical connection.
func (c *Conn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.handle == nil {
		return nil, sql.ErrConnDone
	}

	return c.handle.QueryContext(ctx, query, args...)
}

// QueryRowContext is QueryContext for at most a single row. Errors are deferred until
// Scan.
func (c *Conn) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.handle == nil {
		// sql.Row cannot be built from the outside, so let a closed handle report the error
		return closedHandle().QueryRowContext(ctx, query, args...)
	}

	return c.handle.QueryRowContext(ctx, query, args...)
}

// From unwraps a pooled connection, so queries can be run on it.
func From(conn db.Conn) (*Conn, bool) {
	c, ok := conn.(*Conn)
	return c, ok
}

var (
	closedOnce sync.Once
	closed     *sql.DB
)

func closedHandle() *sql.DB {
	closedOnce.Do(func() {
		closed, _ = sql.Open("sqlite3", ":memory:")
		_ = closed.Close()
	})

	return closed
}
