package utils

import (
	"github.com/google/uuid"
)

// IsValidUUID reports whether s is a well-formed UUID. Click tracking uses it
// to validate client-supplied anonymous identifiers.
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
