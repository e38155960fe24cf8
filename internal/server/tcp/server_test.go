package tcp

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, onConn OnConn) (*Server, <-chan error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := NewServer(listener)
	stopCh := make(chan error, 1)
	go func() {
		stopCh <- server.Start(onConn)
	}()

	return server, stopCh
}

func TestServer(t *testing.T) {
	t.Run("echo", func(t *testing.T) {
		server, stopCh := startServer(t, func(conn net.Conn) {
			_, _ = io.Copy(conn, conn)
		})

		conn, err := net.Dial("tcp", server.Addr().String())
		require.NoError(t, err)
		_, err = conn.Write([]byte("ping"))
		require.NoError(t, err)

		buff := make([]byte, 4)
		_, err = io.ReadFull(conn, buff)
		require.NoError(t, err)
		require.Equal(t, "ping", string(buff))

		require.NoError(t, server.Stop())
		require.ErrorIs(t, <-stopCh, ErrShutdown)

		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, err = conn.Read(buff)
		require.Error(t, err)
	})

	t.Run("graceful shutdown", func(t *testing.T) {
		release := make(chan struct{})
		served := make(chan struct{})
		server, stopCh := startServer(t, func(conn net.Conn) {
			close(served)
			<-release
			_, _ = conn.Write([]byte("bye"))
		})

		conn, err := net.Dial("tcp", server.Addr().String())
		require.NoError(t, err)
		defer conn.Close()
		<-served

		require.NoError(t, server.GracefulShutdown())
		select {
		case <-stopCh:
			require.Fail(t, "Start returned before the connection was served")
		case <-time.After(20 * time.Millisecond):
		}

		close(release)
		buff := make([]byte, 3)
		_, err = io.ReadFull(conn, buff)
		require.NoError(t, err)
		require.Equal(t, "bye", string(buff))
		require.ErrorIs(t, <-stopCh, ErrShutdown)
	})
}
