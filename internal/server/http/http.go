package http

import (
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/utils/strcomp"
	"github.com/rs/zerolog"
	"github.com/tiger2021/httpcore/config"
	"github.com/tiger2021/httpcore/http"
	"github.com/tiger2021/httpcore/http/proto"
	"github.com/tiger2021/httpcore/http/status"
	"github.com/tiger2021/httpcore/internal/buffer"
	"github.com/tiger2021/httpcore/internal/parser/http1"
)

const connIDLength = 8

// Handler produces a response for a completed request. The request and everything it
// refers to is valid only until the handler returns. A nil response is 200 OK with no body.
type Handler func(req *http.Request) *http.Response

type Server struct {
	cfg     *config.Config
	handler Handler
	logger  zerolog.Logger
}

func NewServer(cfg *config.Config, handler Handler, logger zerolog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
}

// Serve processes requests from the connection one by one until either side closes it,
// the read timeout expires or a malformed request arrives. Pipelined requests are
// supported, as the leftovers of the previous request are fed first. The connection
// isn't closed by Serve.
func (s *Server) Serve(conn net.Conn) {
	logger := s.logger.With().
		Str("conn", uniuri.NewLen(connIDLength)).
		Str("remote", conn.RemoteAddr().String()).
		Logger()

	logger.Debug().Msg("connection opened")
	reason := s.serve(conn, logger)
	logger.Debug().Str("reason", reason).Msg("connection closed")
}

func (s *Server) serve(conn net.Conn, logger zerolog.Logger) (reason string) {
	var (
		buf    = buffer.New(s.cfg.NET.ReadBufferSize, s.cfg.NET.ReadBufferSize)
		req    = http.NewRequest()
		parser = http1.NewParser(s.cfg.Parser, req)
		resp   = http.NewResponse()
		out    = make([]byte, 0, s.cfg.NET.ReadBufferSize)
	)

	for {
		if err := parser.Feed(buf, time.Now()); err != nil {
			logger.Debug().Err(err).Msg("malformed request")
			out = renderError(out[:0], req.Proto, err)
			_, _ = conn.Write(out)

			return "malformed request"
		}

		if parser.Completed() {
			keepAlive := isKeepAlive(req)
			out = render(out[:0], req.Proto, s.handle(req, resp.Clear(), logger), keepAlive)
			if _, err := conn.Write(out); err != nil {
				return "write failed"
			}

			if !keepAlive {
				return "close requested"
			}

			parser.Reset()
			continue
		}

		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.NET.ReadTimeout)); err != nil {
			return "set deadline failed"
		}

		if _, err := buf.Fill(conn); err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return "closed by peer"
			case errors.Is(err, os.ErrDeadlineExceeded):
				return "read timeout"
			default:
				return err.Error()
			}
		}
	}
}

// handle calls the handler, turning panics into 500 Internal Server Error.
func (s *Server) handle(req *http.Request, resp *http.Response, logger zerolog.Logger) (result *http.Response) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Str("path", req.Path).Msg("handler panicked")
			result = resp.Clear().Code(status.InternalServerError)
		}
	}()

	if result = s.handler(req); result == nil {
		result = resp
	}

	return result
}

// isKeepAlive follows the default persistence of the protocol: HTTP/1.1 connections
// are persistent unless told otherwise, HTTP/1.0 ones are not.
func isKeepAlive(req *http.Request) bool {
	connection := req.Header("Connection")

	switch req.Proto {
	case proto.HTTP11:
		return !strcomp.EqualFold(connection, "close")
	case proto.HTTP10:
		return strcomp.EqualFold(connection, "keep-alive")
	default:
		return false
	}
}
