package primitives

import "github.com/google/uuid"

// NewUUID returns a fresh RFC 4122 version-4 UUID in canonical 36-char form.
func NewUUID() string {
	return uuid.New().String()
}

// IsUUID reports whether s is a canonical 36-char UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
