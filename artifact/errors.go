package artifact

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an artifact for the given run / name pair
	// does not exist in the underlying store.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidKey is returned for empty or path-like run IDs and names.
	ErrInvalidKey = errors.New("invalid artifact key")
)

// ValidateKey rejects run IDs and artifact names that are empty or could
// escape their run scope in path or key based stores.
func ValidateKey(runID, name string) error {
	for _, part := range []string{runID, name} {
		if part == "" || part == "." || part == ".." ||
			strings.ContainsAny(part, `/\:`) || strings.ContainsRune(part, 0) {
			return fmt.Errorf("%w: %q/%q", ErrInvalidKey, runID, name)
		}
	}
	return nil
}
