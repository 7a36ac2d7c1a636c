package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost keeps cost inside bcrypt's accepted range.  Zero or negative
// values mean "unset" and take bcrypt.DefaultCost; anything past MaxCost is
// capped.
func hashCost(cost int) int {
	switch {
	case cost < bcrypt.MinCost:
		return bcrypt.DefaultCost
	case cost > bcrypt.MaxCost:
		return bcrypt.MaxCost
	}
	return cost
}

// HashPassword returns the bcrypt hash of plain.  Passwords longer than 72
// bytes are rejected with an error wrapping bcrypt.ErrPasswordTooLong.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost(cost))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
