package address

import (
	"errors"
	"net"
	"strconv"
)

const DefaultHost = "0.0.0.0"

type Address struct {
	Host string
	Port uint16
}

// Parse splits the address into host and port. The port is mandatory, the host is not:
// an address consisting only of the port is bound to all interfaces.
func Parse(addr string) (Address, error) {
	host, rawPort, err := net.SplitHostPort(addr)
	if err != nil {
		return Address{}, errors.New("no port given")
	}

	port, err := strconv.ParseUint(rawPort, 10, 16)
	if err != nil {
		return Address{}, errors.New("invalid port: " + rawPort)
	}

	if len(host) == 0 {
		host = DefaultHost
	}

	return Address{
		Host: host,
		Port: uint16(port),
	}, nil
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port)))
}

// WithDefaultPort appends the port to the address, if it has none.
func WithDefaultPort(addr string, port uint16) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}

	return net.JoinHostPort(addr, strconv.Itoa(int(port)))
}
