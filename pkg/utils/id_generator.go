// Package utils provides shared helpers used across the application.
package utils

import (
	"github.com/google/uuid"
)

// GenerateID creates a new UUID v4 string for use as an entity identifier.
// UUIDs can be generated without coordination, which keeps markers and cache
// items creatable from any goroutine or process.
func GenerateID() string {
	return uuid.New().String()
}
