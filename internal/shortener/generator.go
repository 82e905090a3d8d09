package shortener

import (
	"regexp"

	"github.com/jaevor/go-nanoid"
)

// codeAlphabet is the 62-symbol alphabet codes are drawn from.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generator produces random short codes. Codes double as unguessable access
// tokens, so implementations must draw from a cryptographically secure
// source.
type Generator func() Code

// NewGenerator creates a generator producing 6-character alphanumeric codes
// from crypto/rand.
func NewGenerator() (Generator, error) {
	gen, err := nanoid.CustomASCII(codeAlphabet, CodeLength)
	if err != nil {
		return nil, err
	}

	return func() Code {
		return Code(gen())
	}, nil
}

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// ValidCode reports whether s has the shape of an issued code: exactly six
// alphanumeric characters. Malformed codes can be rejected without touching
// the store.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}
