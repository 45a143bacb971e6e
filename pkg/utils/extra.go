package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var sixDigitSpan = big.NewInt(900000)

// GenerateCoachCode returns a random six digit code in 100000-999999.
func GenerateCoachCode() (string, error) {
	n, err := rand.Int(rand.Reader, sixDigitSpan)
	if err != nil {
		return "", fmt.Errorf("generate coach code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
