package http

import (
	"strconv"

	"github.com/tiger2021/httpcore/http"
	"github.com/tiger2021/httpcore/http/proto"
	"github.com/tiger2021/httpcore/http/status"
)

const crlf = "\r\n"

func render(buf []byte, protocol proto.Proto, resp *http.Response, keepAlive bool) []byte {
	fields := resp.Reveal()
	buf = statusLine(buf, protocol, fields.Code)

	if len(fields.ContentType) > 0 {
		buf = header(buf, "Content-Type", fields.ContentType)
	}

	for key, value := range fields.Headers.Iter() {
		buf = header(buf, key, value)
	}

	switch {
	case !keepAlive:
		buf = header(buf, "Connection", "close")
	case protocol == proto.HTTP10:
		// persistence isn't the default for HTTP/1.0, so it must be confirmed explicitly
		buf = header(buf, "Connection", "keep-alive")
	}

	buf = append(buf, "Content-Length: "...)
	buf = strconv.AppendInt(buf, int64(len(fields.Body)), 10)
	buf = append(buf, crlf+crlf...)

	return append(buf, fields.Body...)
}

// renderError produces a bodiless response that tells the client the connection is
// about to be closed.
func renderError(buf []byte, protocol proto.Proto, err error) []byte {
	buf = statusLine(buf, protocol, status.CodeOf(err))
	buf = header(buf, "Connection", "close")

	return append(buf, "Content-Length: 0"+crlf+crlf...)
}

func statusLine(buf []byte, protocol proto.Proto, code status.Code) []byte {
	if protocol == proto.Unknown {
		protocol = proto.HTTP11
	}

	buf = append(buf, protocol.String()...)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, uint64(code), 10)
	buf = append(buf, ' ')
	buf = append(buf, status.Text(code)...)

	return append(buf, crlf...)
}

func header(buf []byte, key, value string) []byte {
	buf = append(buf, key...)
	buf = append(buf, ": "...)
	buf = append(buf, value...)

	return append(buf, crlf...)
}
