package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	require.Equal(t, BadRequest, CodeOf(ErrBadHeaderLine))
	require.Equal(t, LengthRequired, CodeOf(fmt.Errorf("parse: %w", ErrLengthRequired)))
	require.Equal(t, InternalServerError, CodeOf(errors.New("something else")))
}

func TestText(t *testing.T) {
	for _, err := range []error{
		ErrBadRequest, ErrLengthRequired, ErrBodyTooLarge, ErrURITooLong,
		ErrUnsupportedMediaType, ErrTooManyHeaders, ErrMethodNotImplemented, ErrHTTPVersionNotSupported,
	} {
		require.NotEmpty(t, Text(CodeOf(err)), err.Error())
	}

	require.Empty(t, Text(Code(299)))
}
