// Package code generates the short numeric codes mailed to users: one-time
// verification codes and order numbers.
package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	lowest  = 100000
	highest = 999999
)

// SixDigit returns a uniformly random code in [100000, 999999]. The leading
// digit is never zero.
func SixDigit() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(highest-lowest+1))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+lowest), nil
}
