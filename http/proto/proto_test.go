package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromBytes(t *testing.T) {
	t.Run("known", func(t *testing.T) {
		require.Equal(t, HTTP10, FromBytes([]byte("HTTP/1.0")))
		require.Equal(t, HTTP11, FromBytes([]byte("HTTP/1.1")))
	})

	t.Run("unknown", func(t *testing.T) {
		for _, token := range []string{
			"", "HTTP/1.", "HTTP/1.2", "HTTP/2.0", "HTTP/1.10", "http/1.1", "HTTPS1.1", "HTTP/1.1 ",
		} {
			require.Equal(t, Unknown, FromBytes([]byte(token)), token)
		}
	})

	t.Run("string", func(t *testing.T) {
		require.Equal(t, "HTTP/1.0", HTTP10.String())
		require.Equal(t, "HTTP/1.1", HTTP11.String())
		require.Empty(t, Unknown.String())
	})
}
