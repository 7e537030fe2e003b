package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered id; rows keyed by it sort by creation.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewTraceID returns a random id for request correlation.
func NewTraceID() string {
	return uuid.NewString()
}
