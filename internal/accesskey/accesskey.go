// Package accesskey generates the opaque tokens students use instead of credentials.
package accesskey

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultLength is the length of keys issued for new prompts.
const DefaultLength = 16

// Alphabet holds every character a key may contain.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generate draws length characters uniformly from Alphabet.
// Uniqueness is not checked here; the prompts table enforces it.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("access key length must be positive, got %d", length)
	}
	key := make([]byte, length)
	for i := range key {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("reading random source: %w", err)
		}
		key[i] = Alphabet[n.Int64()]
	}
	return string(key), nil
}

// Valid reports whether key has a shape Generate could have produced.
// Lookups short-circuit on malformed keys before touching the database.
func Valid(key string) bool {
	if key == "" || len(key) > 64 {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
