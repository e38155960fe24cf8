package db

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/tiger2021/httpcore/config"
)

var errDown = errors.New("database is down")

type fakeConn struct {
	id         int
	alive      atomic.Bool
	canRevive  atomic.Bool
	panics     atomic.Bool
	pings      atomic.Int32
	reconnects atomic.Int32
	closed     atomic.Bool
}

func (f *fakeConn) Ping(context.Context) bool {
	f.pings.Add(1)
	if f.panics.Load() {
		panic("ping exploded")
	}

	return f.alive.Load()
}

func (f *fakeConn) Reconnect(context.Context) error {
	f.reconnects.Add(1)
	if !f.canRevive.Load() {
		return errDown
	}

	f.alive.Store(true)
	return nil
}

func (f *fakeConn) Close() error {
	f.closed.Store(true)
	return nil
}

// fakeBackend dials fakeConn instances and remembers every one of them.
type fakeBackend struct {
	mu      sync.Mutex
	conns   []*fakeConn
	failAt  int
	configs []config.DB
}

func (b *fakeBackend) Dial(_ context.Context, cfg config.DB) (Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.configs = append(b.configs, cfg)
	if b.failAt > 0 && len(b.configs) == b.failAt {
		return nil, errDown
	}

	conn := &fakeConn{id: len(b.conns)}
	conn.alive.Store(true)
	conn.canRevive.Store(true)
	b.conns = append(b.conns, conn)

	return conn, nil
}

func (b *fakeBackend) Conns() []*fakeConn {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]*fakeConn(nil), b.conns...)
}

func (b *fakeBackend) Dials() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.configs)
}

// syncBuffer lets the test read logs written by the health checker goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.String()
}
