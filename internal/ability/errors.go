// Package ability implements episode tracking with reward estimation,
// temporal credit assignment, and training batch triggering.
package ability

import "errors"

// Sentinel errors for store operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates the requested episode does not exist.
	ErrNotFound = errors.New("episode not found")

	// ErrInvalidState indicates a mutation of an episode that is no
	// longer active, such as appending a transition after completion.
	ErrInvalidState = errors.New("episode not active")

	// ErrInvalidInput indicates malformed input or a data-integrity
	// fault, such as an end timestamp before the start timestamp.
	ErrInvalidInput = errors.New("invalid input")
)
