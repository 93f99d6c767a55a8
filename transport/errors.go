package transport

import "fmt"

// ClientError is a 4xx outcome. The request as sent will not succeed if
// retried unchanged.
type ClientError struct {
	Status int
	Reason string
	URL    string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client error returned from %s (%s)", e.URL, e.Reason)
}

// ServerError is a 5xx outcome. The failure is on the remote side.
type ServerError struct {
	Status int
	Reason string
	URL    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error returned from %s (%s)", e.URL, e.Reason)
}

// TransportError wraps failures that prevented any response from arriving:
// connection refusals, timeouts, body encoding faults.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
