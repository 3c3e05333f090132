// Package common defines shared constants and sentinel errors used across
// the client layers. Callers should match these values with errors.Is.
package common

import "errors"

var (
	// ErrNotAuthenticated means no session (or no token) is available for a
	// call that requires one. Callers redirect to the login flow.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotPermitted means the current session is not allowed to perform
	// the action (e.g. announcement posting for non-admins, deleting a post
	// the viewer does not own).
	ErrNotPermitted = errors.New("not permitted")

	// ErrTokenExpired means a stored token carries an expiry in the past.
	ErrTokenExpired = errors.New("token expired")

	// ErrBusy means an identical operation is already in flight and the
	// duplicate intent was discarded.
	ErrBusy = errors.New("operation already in flight")
)
