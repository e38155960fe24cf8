package http

import (
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
	"github.com/tiger2021/httpcore/http/headers"
	"github.com/tiger2021/httpcore/http/status"
)

const (
	// why 7? There's no theory behind this number, it just covers most of the responses.
	preallocRespHeaders = 7
	defaultContentType  = "text/plain; charset=utf-8"
)

// Fields are the values collected by the builder. Serializing them is up to the server.
type Fields struct {
	Code        status.Code
	ContentType string
	Headers     *headers.Headers
	Body        []byte
}

type Response struct {
	fields Fields
}

// NewResponse returns a response with 200 OK status code and a plain text content type.
func NewResponse() *Response {
	return &Response{
		fields: Fields{
			Code:        status.OK,
			ContentType: defaultContentType,
			Headers:     headers.NewPrealloc(preallocRespHeaders),
		},
	}
}

// Code sets the response status code.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

// ContentType sets a custom Content-Type header value.
func (r *Response) ContentType(value string) *Response {
	r.fields.ContentType = value
	return r
}

// Header sets a header value, overriding the previous one. Content-Length is always
// computed from the body, so setting it manually has no effect.
func (r *Response) Header(key, value string) *Response {
	switch {
	case strcomp.EqualFold(key, "content-type"):
		return r.ContentType(value)
	case strcomp.EqualFold(key, "content-length"):
		return r
	}

	r.fields.Headers.Set(key, value)
	return r
}

// String sets the response's body to the passed string
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	return r
}

// Write implements io.Writer interface. It always returns n=len(b) and err=nil
func (r *Response) Write(b []byte) (n int, err error) {
	r.fields.Body = append(r.fields.Body, b...)
	return len(b), nil
}

// TryJSON serializes the model into the body.
func (r *Response) TryJSON(model any) (*Response, error) {
	r.fields.Body = r.fields.Body[:0]
	stream := json.ConfigDefault.BorrowStream(r)
	stream.WriteVal(model)
	err := stream.Flush()
	json.ConfigDefault.ReturnStream(stream)

	return r.ContentType(mimeJSON), err
}

// JSON does the same as TryJSON does, except returned error is being implicitly wrapped
// by Error
func (r *Response) JSON(model any) *Response {
	resp, err := r.TryJSON(model)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// Error sets the code carried by the error, or 500 Internal Server Error if it's not
// a status.HTTPError, and the error message as a body. Nil errors are ignored.
func (r *Response) Error(err error) *Response {
	if err == nil {
		return r
	}

	return r.
		Code(status.CodeOf(err)).
		ContentType(defaultContentType).
		String(err.Error())
}

// Reveal returns the values filled by the builder.
func (r *Response) Reveal() Fields {
	return r.fields
}

// Clear discards everything was done with Response object before
func (r *Response) Clear() *Response {
	r.fields.Code = status.OK
	r.fields.ContentType = defaultContentType
	r.fields.Headers.Clear()
	r.fields.Body = nil

	return r
}
