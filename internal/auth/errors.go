package auth

import "errors"

// Failure classes for the login callback. They all collapse to the same
// client-visible outcome (redirect with no session); the distinction only
// controls log level.
var (
	// ErrDenied means the user declined consent at the provider.
	ErrDenied = errors.New("auth: consent denied")

	// ErrStateMismatch means the callback carried a state value that is
	// absent, unknown, or already consumed.
	ErrStateMismatch = errors.New("auth: state mismatch")

	// ErrProvider covers token exchange and profile fetch failures.
	ErrProvider = errors.New("auth: provider failure")
)
