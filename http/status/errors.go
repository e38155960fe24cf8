package status

import "errors"

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

// CodeOf extracts the status code carried by the error. Errors that aren't an
// HTTPError are considered to be internal ones.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}

var (
	ErrBadRequest              = NewError(BadRequest, "bad request")
	ErrBadRequestLine          = NewError(BadRequest, "malformed request line")
	ErrNotFound                = NewError(NotFound, "not found")
	ErrBadHeaderLine           = NewError(BadRequest, "header line has no colon")
	ErrBadContentLength        = NewError(BadRequest, "invalid Content-Length value")
	ErrLengthRequired          = NewError(LengthRequired, "Content-Length is required")
	ErrBodyTooLarge            = NewError(RequestEntityTooLarge, "request body is too large")
	ErrURITooLong              = NewError(RequestURITooLong, "request line is too long")
	ErrUnsupportedMediaType    = NewError(UnsupportedMediaType, "unsupported media type")
	ErrHeaderFieldsTooLarge    = NewError(RequestHeaderFieldsTooLarge, "header line is too long")
	ErrTooManyHeaders          = NewError(RequestHeaderFieldsTooLarge, "too many headers")
	ErrMethodNotImplemented    = NewError(NotImplemented, "request method is not supported")
	ErrHTTPVersionNotSupported = NewError(HTTPVersionNotSupported, "HTTP version not supported")
)
