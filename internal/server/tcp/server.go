package tcp

import (
	"errors"
	"net"
	"sync"
)

var ErrShutdown = errors.New("tcp: server is shut down")

type OnConn func(net.Conn)

// Server accepts connections and serves every one of them in its own goroutine.
type Server struct {
	sock     net.Listener
	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	shutdown bool
	wg       sync.WaitGroup
}

func NewServer(sock net.Listener) *Server {
	return &Server{
		sock:  sock,
		conns: map[net.Conn]struct{}{},
	}
}

// Start runs the accept loop until the listener is closed. It returns ErrShutdown if
// it was closed via Stop or GracefulShutdown, after all the connection handlers exited.
func (s *Server) Start(onConn OnConn) error {
	for {
		conn, err := s.sock.Accept()
		if err != nil {
			s.wg.Wait()

			if s.isShutdown() {
				return ErrShutdown
			}

			return err
		}

		s.mu.Lock()
		if s.shutdown {
			s.mu.Unlock()
			_ = conn.Close()
			continue
		}

		s.conns[conn] = struct{}{}
		s.wg.Add(1)
		s.mu.Unlock()

		go s.handleConn(onConn, conn)
	}
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.shutdown
}

func (s *Server) stopListener() error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()

	return s.sock.Close()
}

// Stop shuts listener and ALL the connections down
func (s *Server) Stop() error {
	if err := s.stopListener(); err != nil {
		return err
	}

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return nil
}

// GracefulShutdown stops a listener, but leaving all the connections free to end their
// lives peacefully
func (s *Server) GracefulShutdown() error {
	return s.stopListener()
}

// Addr returns the address the server listens on.
func (s *Server) Addr() net.Addr {
	return s.sock.Addr()
}

func (s *Server) handleConn(onConn OnConn, conn net.Conn) {
	defer s.wg.Done()

	onConn(conn)
	_ = conn.Close()

	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}
