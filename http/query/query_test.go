package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	parse := func(raw string) Params {
		params := Params{}
		Parse(raw, params)
		return params
	}

	t.Run("single pair", func(t *testing.T) {
		query := parse("hello=world")

		value, found := query.Get("hello")
		require.True(t, found)
		require.Equal(t, "world", value)

		value, found = query.Get("lorem")
		require.False(t, found)
		require.Empty(t, value)
	})

	t.Run("multiple pairs", func(t *testing.T) {
		require.Equal(t, Params{"a": "1", "b": "2", "c": ""}, parse("a=1&b=2&c="))
	})

	t.Run("last duplicate wins", func(t *testing.T) {
		require.Equal(t, Params{"x": "3"}, parse("x=1&x=2&x=3"))
	})

	t.Run("flags and empty pairs", func(t *testing.T) {
		query := parse("flag&&=orphan&k=v=w")
		require.Equal(t, Params{"flag": "", "k": "v=w"}, query)
		require.True(t, query.Has("flag"))
	})

	t.Run("empty", func(t *testing.T) {
		require.Empty(t, parse(""))
	})

	t.Run("clear", func(t *testing.T) {
		query := parse("a=1")
		query.Clear()
		require.Empty(t, query)
	})
}
