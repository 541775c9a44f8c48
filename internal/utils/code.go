package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
)

var ErrBadCodeLength = errors.New("code length must be between 4 and 10")

// GenerateNumericCode returns a fixed-length numeric string drawn uniformly
// from [0, 10^length). crypto/rand keeps it independent of time or sequence.
func GenerateNumericCode(length int) (string, error) {
	if length < 4 || length > 10 {
		return "", ErrBadCodeLength
	}
	space := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, space)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

// CodesEqual compares a submitted code against the stored one without leaking
// position of the first differing digit through timing.
func CodesEqual(submitted, stored string) bool {
	if len(submitted) != len(stored) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
}
