// Package roomid generates and validates the short codes players type to
// join a room.
package roomid

import (
	"fmt"
	rand "math/rand/v2"
)

const (
	alphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	defaultLength = 5
	minLength     = 4
	maxLength     = 6
)

// Generator produces room codes from an injected random source so tests get
// reproducible sequences.
type Generator struct {
	rng    *rand.Rand
	length int
}

// NewGenerator returns a generator producing five character codes.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng, length: defaultLength}
}

// Next returns a fresh room code. Uniqueness is the caller's concern; the
// code space is large enough that retrying on collision is cheap.
func (g *Generator) Next() string {
	buf := make([]byte, g.length)
	for i := range buf {
		buf[i] = alphabet[g.rng.IntN(len(alphabet))]
	}
	return string(buf)
}

// Validate checks that a code is 4-6 uppercase letters or digits.
func Validate(code string) error {
	if len(code) < minLength || len(code) > maxLength {
		return fmt.Errorf("room code must be %d-%d characters, got %d", minLength, maxLength, len(code))
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return fmt.Errorf("room code may only contain uppercase letters and digits")
		}
	}
	return nil
}
