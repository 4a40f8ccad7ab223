// Package idgen provides short, URL-safe correlation IDs backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// RequestPrefix is prepended to every generated request ID.
const RequestPrefix = "req-"

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 16

// MaxInboundLength caps the size of a caller-supplied request ID.
const MaxInboundLength = 64

// RequestID returns a new request ID.
func RequestID() (string, error) {
	return GenerateWithPrefix(RequestPrefix)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// Acceptable reports whether a caller-supplied ID can be echoed back and
// logged as-is: non-empty, bounded, and limited to [A-Za-z0-9._-].
func Acceptable(id string) bool {
	if id == "" || len(id) > MaxInboundLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
