package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// generateOTPCode devuelve un código de exactamente 6 dígitos decimales,
// con ceros a la izquierda preservados.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// isValidOTPCode acepta exactamente 6 dígitos ASCII.
func isValidOTPCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
