package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/indigo-web/utils/strcomp"
	json "github.com/json-iterator/go"
	"github.com/tiger2021/httpcore/http/headers"
	"github.com/tiger2021/httpcore/http/method"
	"github.com/tiger2021/httpcore/http/proto"
	"github.com/tiger2021/httpcore/http/query"
	"github.com/tiger2021/httpcore/http/status"
)

const mimeJSON = "application/json"

// Request represents HTTP request. It is populated by the parser incrementally, therefore
// its fields are guaranteed to be consistent only after the parser reports completion.
type Request struct {
	// Method is an enum representing the request method.
	Method method.Method
	// Path is the request target without the query. It isn't decoded.
	Path string
	// Query holds URI parameters. A key presented multiple times keeps only its last value.
	Query query.Params
	// Headers holds header pairs as they were received, even though lookup is case-insensitive.
	// Header values aren't trimmed.
	Headers *headers.Headers
	// Body is exactly ContentLength bytes long.
	Body []byte
	// ContentLength is taken from the Content-Length header for POST and PUT requests only.
	ContentLength int
	// Proto is either proto.HTTP10 or proto.HTTP11.
	Proto proto.Proto
	// ReceivedAt is the moment the request line was received.
	ReceivedAt time.Time
}

func NewRequest() *Request {
	return &Request{
		Method:  method.Unknown,
		Query:   query.Params{},
		Headers: headers.New(),
	}
}

// Header returns the header value by its case-insensitive name, or an empty string.
func (r *Request) Header(name string) string {
	return r.Headers.Value(name)
}

// JSON decodes the body into the model. A malformed body is reported as
// status.ErrBadRequest. Requests explicitly declaring a content type other
// than application/json are rejected with status.ErrUnsupportedMediaType.
func (r *Request) JSON(model any) error {
	if contentType, found := r.Headers.Get("Content-Type"); found && !isJSON(contentType) {
		return status.ErrUnsupportedMediaType
	}

	iterator := json.ConfigDefault.BorrowIterator(r.Body)
	iterator.ReadVal(model)
	err := iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)

	if err != nil {
		return fmt.Errorf("%w: %s", status.ErrBadRequest, err)
	}

	return nil
}

// Reset the request, so it can be populated by the next message.
func (r *Request) Reset() {
	r.Method = method.Unknown
	r.Path = ""
	r.Query.Clear()
	r.Headers.Clear()
	r.Body = nil
	r.ContentLength = 0
	r.Proto = proto.Unknown
	r.ReceivedAt = time.Time{}
}

func isJSON(contentType string) bool {
	mime, _, _ := strings.Cut(contentType, ";")
	return strcomp.EqualFold(strings.TrimSpace(mime), mimeJSON)
}
