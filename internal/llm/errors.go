package llm

import "fmt"

// StatusError is an HTTP-style error response from the model backend.
// The status code and message carry everything the failure mapper needs,
// so no provider exception type crosses the gateway boundary.
type StatusError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// TransportError is a network-level failure reaching the model backend.
type TransportError struct {
	Message string
	Timeout bool
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("transport timeout: %s", e.Message)
	}
	return fmt.Sprintf("transport error: %s", e.Message)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// DecodeError indicates a backend response that could not be decoded or
// interpreted. Strategies also return it when answer extraction fails,
// so parsing failures classify distinctly from transport failures.
type DecodeError struct {
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %s", e.Message)
}

func (e *DecodeError) Unwrap() error { return e.Cause }
