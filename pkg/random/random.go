// Package random generates short codes from an unambiguous, URL-safe alphabet.
package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet omits characters that are easy to confuse when read aloud or
// retyped: 0/O, 1/l/I.
const Alphabet = "23456789abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"

// NewRandomString returns a string of the given length drawn uniformly from Alphabet.
func NewRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid length %d", length)
	}

	max := big.NewInt(int64(len(Alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = Alphabet[n.Int64()]
	}
	return string(b), nil
}
