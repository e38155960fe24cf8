package db

import "sync/atomic"

// Lease is an exclusive right to use a pooled connection. It must be released exactly
// once, preferably via defer right after a successful Acquire. Releasing it again is a
// no-op.
type Lease struct {
	pool     *Pool
	conn     Conn
	released atomic.Bool
}

func newLease(pool *Pool, conn Conn) *Lease {
	return &Lease{
		pool: pool,
		conn: conn,
	}
}

// Conn returns the leased connection, or nil if the lease is already released.
func (l *Lease) Conn() Conn {
	if l.released.Load() {
		return nil
	}

	return l.conn
}

// Release returns the connection to the pool.
func (l *Lease) Release() {
	if l.released.CompareAndSwap(false, true) {
		l.pool.put(l.conn)
	}
}
