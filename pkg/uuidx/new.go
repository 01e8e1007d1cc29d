// Package uuidx generates time-ordered (version 7) UUIDs for run and
// session identifiers.
package uuidx

import "github.com/google/uuid"

// New returns a new version 7 UUID. It panics when the system source of
// randomness is unavailable.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString returns a new version 7 UUID rendered as a string.
func NewString() string {
	return New().String()
}
