package client

import (
	"errors"
	"net"
	"net/http"
	"syscall"
)

// Doer is the HTTP capability the client dispatches through. *http.Client
// satisfies it; retry, pooling and TLS policy all live behind it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var errnoNames = map[syscall.Errno]string{
	syscall.ECONNREFUSED: CodeConnRefused,
	syscall.ECONNRESET:   "ECONNRESET",
	syscall.EHOSTUNREACH: "EHOSTUNREACH",
	syscall.ENETUNREACH:  "ENETUNREACH",
	syscall.EPIPE:        "EPIPE",
	syscall.ETIMEDOUT:    "ETIMEDOUT",
}

// classifyTransport turns an error returned by Doer.Do into a
// *TransportError carrying a syscall-style code where one can be recovered.
// Unrecognized failures keep an empty code and normalize to EUNSPECIFIED.
func classifyTransport(err error) *TransportError {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return &TransportError{Code: CodeNotFound, Cause: err}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if name, ok := errnoNames[errno]; ok {
			return &TransportError{Code: name, Cause: err}
		}
		return &TransportError{Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{Code: "ETIMEDOUT", Cause: err}
	}

	return &TransportError{Cause: err}
}
