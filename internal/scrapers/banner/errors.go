package banner

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrTimeout    = errors.New("request timed out")
	ErrConnection = errors.New("could not connect")
)

// HTTPError is returned when the server answers with a non 2xx status.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected http status %d", e.Status)
}

// TransportError is any other failure of the request.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// classifyError maps a request error to ErrTimeout, ErrConnection or a
// TransportError. The original error stays reachable through errors.Is/As.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	return &TransportError{Err: err}
}
