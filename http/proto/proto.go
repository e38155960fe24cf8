package proto

import "github.com/indigo-web/utils/uf"

type Proto uint8

const (
	Unknown Proto = 0
	HTTP10  Proto = 1 << iota
	HTTP11
)

func (p Proto) String() string {
	switch p {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	default:
		return ""
	}
}

const (
	protoTokenLength   = len("HTTP/1.x")
	minorVersionOffset = len("HTTP/1.x") - 1
	http1Prefix        = "HTTP/1."
)

// FromBytes recognizes exactly two tokens: HTTP/1.0 and HTTP/1.1. Everything else,
// including HTTP/2 and tokens with trailing garbage, results in Unknown.
func FromBytes(raw []byte) Proto {
	if len(raw) != protoTokenLength || uf.B2S(raw[:minorVersionOffset]) != http1Prefix {
		return Unknown
	}

	switch raw[minorVersionOffset] {
	case '0':
		return HTTP10
	case '1':
		return HTTP11
	default:
		return Unknown
	}
}
