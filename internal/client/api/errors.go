package api

import (
	"errors"
	"fmt"
)

// The three failure modes of §error handling are kept distinguishable:
// transport errors match ErrUnavailable, undecodable bodies match
// ErrMalformed (carrying status and a snippet for diagnostics), and
// server-rejected operations surface as *RejectedError with the server's
// verbatim message. Authentication failures match ErrUnauthorized.

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrMalformed    = errors.New("malformed server response")
	ErrUnauthorized = errors.New("unauthorized")
)

// RejectedError is a well-formed `success:false` response. Message is shown
// to the user verbatim.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "request rejected by server"
	}
	return e.Message
}

// MalformedError is a response that was expected to be JSON but was not
// (or carried an unexpected status with an undecodable body).
type MalformedError struct {
	Status  int
	Snippet string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Snippet)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }
