package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRandomString(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		s, err := NewRandomString(7)
		require.NoError(t, err)
		assert.Len(t, s, 7)
		for _, r := range s {
			assert.True(t, strings.ContainsRune(Alphabet, r), "unexpected rune %q", r)
		}
		seen[s] = struct{}{}
	}
	assert.Greater(t, len(seen), 190)
}

func TestNewRandomString_InvalidLength(t *testing.T) {
	_, err := NewRandomString(0)
	assert.Error(t, err)
}

func TestAlphabet_Unambiguous(t *testing.T) {
	for _, r := range "0O1lI" {
		assert.False(t, strings.ContainsRune(Alphabet, r), "alphabet contains %q", r)
	}
}
