package http1

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/indigo-web/utils/uf"
	"github.com/tiger2021/httpcore/config"
	"github.com/tiger2021/httpcore/http"
	"github.com/tiger2021/httpcore/http/method"
	"github.com/tiger2021/httpcore/http/proto"
	"github.com/tiger2021/httpcore/http/query"
	"github.com/tiger2021/httpcore/http/status"
	"github.com/tiger2021/httpcore/internal/buffer"
)

type parserState uint8

const (
	eRequestLine parserState = iota + 1
	eHeaders
	eBody
	eComplete
	eError
)

const crlfLen = len("\r\n")

// Parser is a line-based stream parser of HTTP/1.x requests. Lines are processed only when
// they're terminated by CRLF, so a line is either accepted as a whole or the whole request
// is rejected. Accepted lines are copied into the request and retrieved from the buffer,
// incomplete ones stay there until the next Feed.
//
// Parser is bound to a single connection and must not be shared.
type Parser struct {
	state         parserState
	err           error
	headersNumber int
	cfg           config.Parser
	request       *http.Request
}

func NewParser(cfg config.Parser, request *http.Request) *Parser {
	return &Parser{
		state:   eRequestLine,
		cfg:     cfg,
		request: request,
	}
}

// Feed consumes as much of the buffered data as possible. It returns nil both if the request
// is complete and if more data is required, so Completed must be checked. A non-nil error is
// always a status.HTTPError and is fatal for the connection: every subsequent call returns
// the same error until Reset.
func (p *Parser) Feed(buf *buffer.Buffer, receivedAt time.Time) error {
	for {
		switch p.state {
		case eRequestLine:
			end := buf.FindCRLF()
			if end == -1 {
				if buf.Len() > p.cfg.MaxRequestLine {
					return p.fail(status.ErrURITooLong)
				}

				return nil
			} else if end > p.cfg.MaxRequestLine {
				return p.fail(status.ErrURITooLong)
			}

			if err := p.requestLine(buf.Peek()[:end]); err != nil {
				return p.fail(err)
			}

			p.request.ReceivedAt = receivedAt
			buf.Retrieve(end + crlfLen)
			p.state = eHeaders
		case eHeaders:
			end := buf.FindCRLF()
			if end == -1 {
				if buf.Len() > p.cfg.MaxHeaderLine {
					return p.fail(status.ErrHeaderFieldsTooLarge)
				}

				return nil
			} else if end > p.cfg.MaxHeaderLine {
				return p.fail(status.ErrHeaderFieldsTooLarge)
			}

			line := buf.Peek()[:end]
			if len(line) == 0 {
				buf.Retrieve(crlfLen)
				if err := p.headersCompleted(); err != nil {
					return p.fail(err)
				}

				continue
			}

			colon := bytes.IndexByte(line, ':')
			if colon == -1 {
				return p.fail(status.ErrBadHeaderLine)
			}

			if p.headersNumber++; p.headersNumber > p.cfg.MaxHeaders {
				return p.fail(status.ErrTooManyHeaders)
			}

			p.request.Headers.Set(string(line[:colon]), string(line[colon+1:]))
			buf.Retrieve(end + crlfLen)
		case eBody:
			if buf.Len() < p.request.ContentLength {
				return nil
			}

			body := make([]byte, p.request.ContentLength)
			copy(body, buf.Peek())
			p.request.Body = body
			buf.Retrieve(p.request.ContentLength)
			p.state = eComplete
		case eComplete:
			return nil
		case eError:
			return p.err
		default:
			panic(fmt.Sprintf("BUG: unexpected parser state: %v", p.state))
		}
	}
}

func (p *Parser) requestLine(line []byte) error {
	sp := bytes.IndexByte(line, ' ')
	if sp == -1 {
		return status.ErrBadRequestLine
	}

	p.request.Method = method.Parse(uf.B2S(line[:sp]))
	if p.request.Method == method.Unknown {
		return status.ErrMethodNotImplemented
	}

	line = line[sp+1:]
	sp = bytes.IndexByte(line, ' ')
	if sp == -1 {
		return status.ErrBadRequestLine
	}

	target, version := line[:sp], line[sp+1:]
	if q := bytes.IndexByte(target, '?'); q != -1 {
		query.Parse(string(target[q+1:]), p.request.Query)
		target = target[:q]
	}

	p.request.Path = string(target)
	p.request.Proto = proto.FromBytes(version)
	if p.request.Proto == proto.Unknown {
		return status.ErrHTTPVersionNotSupported
	}

	return nil
}

func (p *Parser) headersCompleted() error {
	if !p.request.Method.HasBody() {
		p.state = eComplete
		return nil
	}

	value, found := p.request.Headers.Get("Content-Length")
	if !found {
		return status.ErrLengthRequired
	}

	length, err := parseContentLength(value)
	if err != nil {
		return err
	}

	if length > p.cfg.MaxBodySize {
		return status.ErrBodyTooLarge
	}

	p.request.ContentLength = length
	if length == 0 {
		p.request.Body = []byte{}
		p.state = eComplete
	} else {
		p.state = eBody
	}

	return nil
}

// parseContentLength accepts plain decimal digits only. Surrounding whitespace is tolerated,
// as header values are stored untrimmed and the most common form is "Content-Length: 5".
func parseContentLength(value string) (int, error) {
	value = strings.Trim(value, " \t")
	if len(value) == 0 {
		return 0, status.ErrBadContentLength
	}

	var length int
	for i := 0; i < len(value); i++ {
		char := value[i]
		if char < '0' || char > '9' {
			return 0, status.ErrBadContentLength
		}

		digit := int(char - '0')
		if length > (math.MaxInt-digit)/10 {
			return 0, status.ErrBadContentLength
		}

		length = length*10 + digit
	}

	return length, nil
}

func (p *Parser) fail(err error) error {
	p.state = eError
	p.err = err
	return err
}

// Completed reports whether the whole request, including its body, has been parsed.
func (p *Parser) Completed() bool {
	return p.state == eComplete
}

// ExpectsBody reports whether headers are done and the parser is waiting for body bytes.
func (p *Parser) ExpectsBody() bool {
	return p.state == eBody
}

// Request returns the request the parser populates.
func (p *Parser) Request() *http.Request {
	return p.request
}

// Reset prepares the parser and its request to the next message.
func (p *Parser) Reset() {
	p.request.Reset()
	p.headersNumber = 0
	p.err = nil
	p.state = eRequestLine
}
