// Package invite generates short human-shareable friend invite codes.
package invite

import (
	"crypto/rand"
	"math/big"

	"github.com/pinory/backend/internal/repositories"
)

// Alphabet excludes visually ambiguous characters (O, 0, 1) so codes
// survive being read aloud or handwritten. 33 characters, 33^8 codes.
const Alphabet = "ABCDEFGHIJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the fixed length of generated invite codes
const CodeLength = 8

// DefaultMaxAttempts bounds collision retries. The code space makes
// collisions negligible; the bound only guards against a misbehaving store.
const DefaultMaxAttempts = 10

// ExistsFunc reports whether a code is already in use
type ExistsFunc func(code string) (bool, error)

// Generator produces unique invite codes against an existence check
type Generator struct {
	exists      ExistsFunc
	maxAttempts int
}

// NewGenerator creates a Generator with the default attempt bound
func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{exists: exists, maxAttempts: DefaultMaxAttempts}
}

// NewGeneratorWithAttempts creates a Generator with a custom attempt bound
func NewGeneratorWithAttempts(exists ExistsFunc, maxAttempts int) *Generator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Generator{exists: exists, maxAttempts: maxAttempts}
}

// Generate returns a fresh invite code that did not exist at check time.
// It fails with repositories.ErrGenerationExhausted once the attempt bound
// is reached. The store's unique index remains the final arbiter; a
// conflict on insert should be treated as a retry signal by the caller.
func (g *Generator) Generate() (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}

		taken, err := g.exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", repositories.ErrGenerationExhausted
}

func randomCode() (string, error) {
	buf := make([]byte, CodeLength)
	max := big.NewInt(int64(len(Alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}
