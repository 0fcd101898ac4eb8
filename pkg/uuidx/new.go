// Package uuidx generates the time-ordered identifiers used to correlate the
// log records of a single request.
package uuidx

import "github.com/google/uuid"

// NewString generates a new version 7 UUID and returns it as a string.
// It panics if the UUID generation fails.
func NewString() string {
	return uuid.Must(uuid.NewV7()).String()
}
