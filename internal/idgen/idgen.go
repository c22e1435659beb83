// Package idgen handles identifier generation for short links.
package idgen

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// alphabet is the 62-character set identifiers are drawn from.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength is the default length for generated identifiers.
const DefaultLength = 5

// ErrAttemptsExhausted is returned when the collision retry bound is reached.
var ErrAttemptsExhausted = errors.New("identifier allocation attempts exhausted")

// Generator defines the interface for producing candidate identifiers.
type Generator interface {
	// Generate creates a new candidate identifier. Callers must not assume
	// uniqueness from a single call.
	Generate() (string, error)
}

// RandomGenerator samples each character independently and uniformly
// from the alphabet.
type RandomGenerator struct {
	length int
}

// NewRandomGenerator creates a RandomGenerator with the specified length.
func NewRandomGenerator(length int) *RandomGenerator {
	if length < 1 {
		length = DefaultLength
	}
	return &RandomGenerator{length: length}
}

// NewDefaultGenerator creates a RandomGenerator with the default length.
func NewDefaultGenerator() *RandomGenerator {
	return NewRandomGenerator(DefaultLength)
}

// Generate creates a new random identifier using crypto/rand.
func (g *RandomGenerator) Generate() (string, error) {
	result := make([]byte, g.length)
	max := big.NewInt(int64(len(alphabet)))

	for i := 0; i < g.length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = alphabet[n.Int64()]
	}

	return string(result), nil
}

// Length returns the configured identifier length.
func (g *RandomGenerator) Length() int {
	return g.length
}
