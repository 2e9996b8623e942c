package api

import (
	"fmt"
)

// StatusError is a non-2xx response from the recommendation server.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// NetworkError wraps a transport failure. The request never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Errorf("%s: network: %w", e.Op, e.Err).Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
