// Package id generates run identifiers.
package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces run IDs. The scraper tags every log line, progress
// event, and run summary with one ID per invocation.
type Generator interface {
	NewRunID() (uuid.UUID, error)
}

// UUIDv7 generates time-ordered UUIDs.
type UUIDv7 struct{}

// NewUUIDv7 creates a UUIDv7 generator.
func NewUUIDv7() *UUIDv7 {
	return &UUIDv7{}
}

// NewRunID returns a fresh UUIDv7.
func (UUIDv7) NewRunID() (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("generate uuidv7: %w", err)
	}
	return id, nil
}
