package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRandomString returns a random alphanumeric string of the given
// length, suitable for referral codes and guest usernames.
func GenerateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be a positive integer")
	}
	b := make([]byte, length)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		val, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for string: %w", err)
		}
		b[i] = codeChars[val.Int64()]
	}
	return string(b), nil
}
