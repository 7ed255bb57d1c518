package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors carry no infrastructure dependency.
// The metrics engine itself never fails; these belong to the session layer.

var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Store errors
	ErrStoreClosed = errors.New("collection store is closed")
)
