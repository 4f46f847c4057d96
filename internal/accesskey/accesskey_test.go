package accesskey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLengthAndCharset(t *testing.T) {
	for _, length := range []int{1, 8, DefaultLength, 32} {
		key, err := Generate(length)
		require.NoError(t, err)
		assert.Len(t, key, length)
		for _, c := range key {
			assert.True(t, strings.ContainsRune(Alphabet, c), "unexpected character %q in %q", c, key)
		}
		assert.True(t, Valid(key))
	}
}

func TestGenerateRejectsNonPositiveLength(t *testing.T) {
	_, err := Generate(0)
	assert.Error(t, err)
	_, err = Generate(-3)
	assert.Error(t, err)
}

func TestGenerateDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 5000; i++ {
		key, err := Generate(DefaultLength)
		require.NoError(t, err)
		require.False(t, seen[key], "duplicate key %q", key)
		seen[key] = true
	}
}

func TestGenerateCoversAlphabet(t *testing.T) {
	seen := make(map[rune]bool)
	for i := 0; i < 400; i++ {
		key, err := Generate(DefaultLength)
		require.NoError(t, err)
		for _, c := range key {
			seen[c] = true
		}
	}
	assert.Len(t, seen, len(Alphabet))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("abcXYZ019"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("abc def"))
	assert.False(t, Valid("abc/../x"))
	assert.False(t, Valid(strings.Repeat("a", 65)))
}
